package main

import (
	awslambda "github.com/aws/aws-lambda-go/lambda"

	"shopify-app-api/internal/handlers"
	"shopify-app-api/pkg/lambda"
	"shopify-app-api/pkg/server"
)

// POST /webhooks/gdpr answers the privacy webhooks.
func main() {
	awslambda.Start(lambda.GetConnectionManager().APIGatewayHandler("webhooks", func(c *server.Container) lambda.HandlerFunc {
		return handlers.NewWebhookHandler(c.PrivacyService, c.Config.Shopify.APISecret).HandleWebhook
	}))
}
