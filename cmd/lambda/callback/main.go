package main

import (
	awslambda "github.com/aws/aws-lambda-go/lambda"

	"shopify-app-api/internal/handlers"
	"shopify-app-api/pkg/lambda"
	"shopify-app-api/pkg/server"
)

// GET /callback completes the OAuth installation.
func main() {
	awslambda.Start(lambda.GetConnectionManager().APIGatewayHandler("callback", func(c *server.Container) lambda.HandlerFunc {
		return handlers.NewAuthHandler(c.OAuthService, c.Config.Shopify.APISecret).HandleCallback
	}))
}
