// Package auth groups user identity and session token packages.
package auth
