// ABOUTME: Version and product identification constants
// ABOUTME: Reported in the remote control handshake and binary banners
package version

const (
	// Version is the software version
	Version = "0.3.0"

	// Product is the product name
	Product = "jamjar"

	// Manufacturer identifies who builds it
	Manufacturer = "Resonate Protocol"
)
