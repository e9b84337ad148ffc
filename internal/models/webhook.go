package models

import "encoding/json"

// Topic identifies a mandatory privacy webhook.
type Topic int

const (
	TopicUnknown Topic = iota
	TopicCustomersDataRequest
	TopicCustomersRedact
	TopicShopRedact
)

var topicNames = map[Topic]string{
	TopicCustomersDataRequest: "customers/data_request",
	TopicCustomersRedact:      "customers/redact",
	TopicShopRedact:           "shop/redact",
}

// ParseTopic maps an X-Shopify-Topic header value to a Topic. Anything not
// in the fixed set yields TopicUnknown.
func ParseTopic(s string) Topic {
	for t, name := range topicNames {
		if name == s {
			return t
		}
	}
	return TopicUnknown
}

func (t Topic) String() string {
	if name, ok := topicNames[t]; ok {
		return name
	}
	return "unknown"
}

// Action values reported back to Shopify.
const (
	ActionNoneRequired = "none_required"
	ActionDataDeleted  = "data_deleted"
)

// CustomerDataResponse answers customers/data_request.
type CustomerDataResponse struct {
	ShopID     json.RawMessage `json:"shop_id"`
	ShopDomain json.RawMessage `json:"shop_domain"`
	CustomerID json.RawMessage `json:"customer_id"`
	DataStored []string        `json:"data_stored"`
	Message    string          `json:"message"`
}

// CustomerRedactResponse answers customers/redact.
type CustomerRedactResponse struct {
	ShopID      json.RawMessage `json:"shop_id"`
	ShopDomain  json.RawMessage `json:"shop_domain"`
	CustomerID  json.RawMessage `json:"customer_id"`
	ActionTaken string          `json:"action_taken"`
	Message     string          `json:"message"`
}

// DeletionDetails lists what shop/redact removed.
type DeletionDetails struct {
	Shop              string   `json:"shop"`
	DeletedParameters []string `json:"deleted_parameters"`
	DeletedAt         string   `json:"deleted_at"`
}

// ShopRedactResponse answers shop/redact.
type ShopRedactResponse struct {
	ShopID      json.RawMessage `json:"shop_id"`
	ShopDomain  json.RawMessage `json:"shop_domain"`
	ActionTaken string          `json:"action_taken"`
	Details     DeletionDetails `json:"details"`
	Message     string          `json:"message"`
}
