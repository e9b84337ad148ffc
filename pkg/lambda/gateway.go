package lambda

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/sirupsen/logrus"

	"shopify-app-api/pkg/server"
)

// GatewayHandler is the function signature passed to the Lambda runtime
type GatewayHandler func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// APIGatewayHandler converts events, resolves the container and dispatches to
// the handler picked by build. Initialization and handler errors become a
// generic 500.
func (cm *ConnectionManager) APIGatewayHandler(function string, build func(c *server.Container) HandlerFunc) GatewayHandler {
	return func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		req := FromAPIGateway(event)
		if lc, ok := lambdacontext.FromContext(ctx); ok && req.RequestID == "" {
			req.RequestID = lc.AwsRequestID
		}
		log := logrus.WithFields(logrus.Fields{
			"function":   function,
			"request_id": req.RequestID,
		})

		container, err := cm.GetContainer(ctx)
		if err != nil {
			log.WithError(err).Error("Failed to initialize container")
			return internalError(), nil
		}

		resp, err := build(container)(ctx, req)
		if err != nil {
			log.WithError(err).Error("Unhandled handler error")
			return internalError(), nil
		}

		return resp.ToAPIGateway(), nil
	}
}

func internalError() events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusInternalServerError,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       `{"error": "Internal server error"}`,
	}
}
