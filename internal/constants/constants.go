package constants

const (
	APP_PRODUCT_SERVICE   = "product-service"
	APP_CART_SERVICE      = "cart-service"
	APP_GANGSHEET_SERVICE = "gangsheet-service"
	APP_MAIN_STOREFRONT   = "main storefront"
	AUDIENCE_STOREFRONT   = "audience-storefront"
)

const (
	KEY_APP_NAME       = "app"
	KEY_TAG            = "tag"
	KEY_PROCESS        = "process"
	KEY_CONFIG         = "config"
	KEY_BODY           = "requestBody"
	KEY_HEADER         = "requestHeader"
	KEY_REQUEST        = "request"
	KEY_REQUEST_ID     = "requestId"
	KEY_REQUEST_HOST   = "host"
	KEY_REQUEST_IP     = "requesterIP"
	KEY_REQUEST_METHOD = "requestMethod"
	KEY_REQUEST_URI    = "requestURI"
	KEY_REQUEST_URL    = "requestURL"
	KEY_SESSION_ID     = "sessionId"
	KEY_USER_ID        = "userId"
	KEY_LINE_ID        = "lineId"
	KEY_PRODUCT_ID     = "productId"
	KEY_VARIANT_ID     = "variantId"
	KEY_SHEET_ID       = "sheetId"
	KEY_DESIGN_ID      = "designId"
	KEY_CACHE_KEY      = "cacheKey"
)
