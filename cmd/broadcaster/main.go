package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"broadcaster/internal/app"
	"broadcaster/internal/cli"
	"broadcaster/internal/config"
	"broadcaster/internal/handler"
	"broadcaster/internal/logging"
)

func main() {
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		if err := runLambda(); err != nil {
			os.Exit(1)
		}
		return
	}

	if err := runLocal(); err != nil {
		os.Exit(1)
	}
}

func runLocal() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return cli.Execute(ctx)
}

// runLambda wires the app once per cold start and serves API Gateway
// requests. Each request authenticates with its own bearer token.
func runLambda() error {
	logCfg, err := logging.FromEnv("broadcaster")
	logger := logging.New(logCfg)
	if err != nil {
		logger.Warn("invalid logging settings, using defaults", "error", err)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return err
	}

	a, err := app.New(context.Background(), app.Options{
		Config: cfg,
		Logger: logger,
	})
	if err != nil {
		logger.Error("failed to initialise app", "error", err)
		return err
	}
	defer a.Close()

	apiHandler := handler.NewAPIHandler(a.Services, logger.With("component", "api"))

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return apiHandler.Handle(ctx, req)
	})
	return nil
}
