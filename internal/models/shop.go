package models

import (
	"regexp"
)

// ShopDomainSuffix is the fixed suffix every shop domain carries.
const ShopDomainSuffix = ".myshopify.com"

// Shop domain validation regex: one alphanumeric/hyphen label plus the fixed suffix
var shopDomainRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]*\.myshopify\.com$`)

// IsValidShopDomain reports whether shop is a well-formed *.myshopify.com domain
func IsValidShopDomain(shop string) bool {
	return shopDomainRegex.MatchString(shop)
}
