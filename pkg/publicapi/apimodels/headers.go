package apimodels

// Headers the server attaches to every response so clients can detect
// version skew without an extra round trip.
const (
	HTTPHeaderGatewayGitVersion = "X-Gateway-Git-Version"
	HTTPHeaderGatewayGitCommit  = "X-Gateway-Git-Commit"
	HTTPHeaderGatewayBuildDate  = "X-Gateway-Build-Date"
	HTTPHeaderGatewayBuildOS    = "X-Gateway-Build-OS"
	HTTPHeaderGatewayArch       = "X-Gateway-Arch"
)
