package main

import (
	"context"
	"log"

	appembed "github.com/astro-web3/metabase-embed/internal/app/embed"
	"github.com/astro-web3/metabase-embed/internal/config"
	lambdatransport "github.com/astro-web3/metabase-embed/internal/transport/lambda"
	"github.com/astro-web3/metabase-embed/pkg/otel"
	"github.com/aws/aws-lambda-go/events"
	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"
)

// lambdaRuntimeAPIEnv is set by the Lambda runtime for every function,
// including custom runtimes that start bootstrap without arguments.
const lambdaRuntimeAPIEnv = "AWS_LAMBDA_RUNTIME_API"

func newLambdaCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "lambda",
		Short: "Run as an AWS Lambda function behind API Gateway",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runLambda(*configPath)
		},
	}
}

func runLambda(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if err := appembed.InitObservability(cfg, version); err != nil {
		return err
	}

	appService, cleanup, err := appembed.NewFromConfig(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	handler := lambdatransport.NewHandler(appService)

	awslambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		resp, err := handler.Handle(ctx, req)
		if flushErr := otel.ForceFlush(ctx); flushErr != nil {
			log.Printf("Failed to flush spans: %v", flushErr)
		}
		return resp, err
	})

	return nil
}
