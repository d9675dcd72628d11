// Package catalog queries a remote ChRIS CUBE plugin catalog over HTTPS.
package catalog
