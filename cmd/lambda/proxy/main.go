package main

import (
	awslambda "github.com/aws/aws-lambda-go/lambda"

	"shopify-app-api/internal/handlers"
	"shopify-app-api/pkg/lambda"
	"shopify-app-api/pkg/server"
)

// GET|POST /proxy relays storefront app proxy requests.
func main() {
	awslambda.Start(lambda.GetConnectionManager().APIGatewayHandler("proxy", func(c *server.Container) lambda.HandlerFunc {
		return handlers.NewProxyHandler(c.ProxyService, c.Config.Shopify.APISecret).HandleProxy
	}))
}
