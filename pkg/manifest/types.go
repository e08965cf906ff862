package manifest

// Methods the gateway endpoint can be configured for.
const (
	MethodGet    = "GET"
	MethodPost   = "POST"
	MethodPut    = "PUT"
	MethodDelete = "DELETE"
)

var supportedMethods = map[string]struct{}{
	MethodGet:    {},
	MethodPost:   {},
	MethodPut:    {},
	MethodDelete: {},
}

// SupportedMethods lists the methods accepted by the gateway route, in registration order.
func SupportedMethods() []string {
	return []string{MethodGet, MethodPost, MethodPut, MethodDelete}
}

// IsSupportedMethod reports whether m (already upper-cased) can be configured on an endpoint.
func IsSupportedMethod(m string) bool {
	_, ok := supportedMethods[m]
	return ok
}
