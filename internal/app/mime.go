package app

import (
	"log"
	"mime"
)

// Some minimal base images ship without an /etc/mime.types, which breaks the
// Content-Type of the embedded stylesheet.
func init() {
	if mime.TypeByExtension(".css") != "" {
		return
	}
	if err := mime.AddExtensionType(".css", "text/css; charset=utf-8"); err != nil {
		log.Printf("app: failed to register MIME type for .css: %v", err)
	}
}
