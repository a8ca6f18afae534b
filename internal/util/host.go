package util

import "os"

// OriginName returns the local host name used as a datagram's origin.
// The codec truncates it to the wire limit. An empty string is returned
// when the host name cannot be determined.
func OriginName() string {
	name, err := os.Hostname()
	if err != nil {
		LogWarning("could not determine host name: %v", err)
		return ""
	}
	return name
}
