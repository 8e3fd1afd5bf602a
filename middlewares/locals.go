package middlewares

// Gate zincirinin fiber Locals üzerinde paylaştığı anahtarlar.
const (
	LocalClientIP      = "client_ip"
	LocalClientCountry = "client_country"
	LocalCFRay         = "cf_ray"
	LocalSecure        = "request_secure"
	LocalCurrentUser   = "currentUser"
)
