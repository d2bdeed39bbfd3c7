package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"payparts/config"
	"payparts/entity"
	"payparts/gateway"
	"payparts/internal"
	"payparts/services"
)

func main() {

	logger := internal.NewLogger("internal", false, nil)
	defer logger.Sync()

	configPath := flag.String("conf", "config.yml", "path to config file")
	flag.Parse()

	logger.Info("using config file: " + *configPath)
	conf, err := config.GetConfig(*configPath)
	if err != nil {
		logger.Error("boot", err)
		return
	}

	var mongo services.Database
	if conf.Mongo.Enabled {
		mongo, err = internal.NewMongoClient(conf)
		if err != nil {
			logger.Error("mongo client", err)
			return
		}
		logger.Info("mongo client initialized")
	}

	store, err := gateway.NewStore(conf.Store.Id, conf.Store.Password)
	if err != nil {
		logger.Error("store credentials", err)
		return
	}

	client := gateway.NewClient(store)
	client.SetApiUrl(conf.Store.ApiUrl)
	client.SetQrUrl(conf.Store.QrUrl)
	client.SetHttpClient(&http.Client{Timeout: conf.Store.Timeout})
	client.SetDefaults(gateway.Defaults{
		ResponseUrl:  conf.Store.ResponseUrl,
		RedirectUrl:  conf.Store.RedirectUrl,
		PartsCount:   conf.Payment.PartsCount,
		MerchantType: entity.MerchantType(conf.Payment.MerchantType),
	})
	client.SetLogger(internal.NewLogger("payments", conf.IsDebug, mongo))

	var handler services.CallbackHandler = internal.NewLogCallbackHandler(internal.NewLogger("callbacks", conf.IsDebug, mongo))
	if conf.Kafka.Enabled {
		producer, e := internal.NewKafkaProducer(conf.Kafka.Brokers)
		if e != nil {
			logger.Error("kafka", e)
			return
		}
		publisher := internal.NewKafkaPublisher(producer, conf.Kafka.Topic, internal.NewLogger("kafka", conf.IsDebug, mongo))
		defer func() {
			if e := publisher.Close(); e != nil {
				logger.Error("kafka close", e)
			}
		}()
		handler = publisher
		logger.Info("publishing callbacks to kafka topic " + conf.Kafka.Topic)
	}

	authenticator := gateway.NewAuthenticator(store, handler)
	authenticator.SetLogger(internal.NewLogger("callbacks", conf.IsDebug, mongo))

	server := internal.NewServer(conf, client, authenticator)
	server.SetLogger(internal.NewLogger("server", conf.IsDebug, mongo))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if e := server.Shutdown(shutdownCtx); e != nil {
			logger.Error("server shutdown", e)
		}
	}()

	err = server.Start()
	if err != nil {
		logger.Error("server start", err)
		return
	}

}
