package mediaid

import (
	"net/url"
	"strings"

	"tubemeta/internal/services"
)

// YouTube recognizes watch pages on youtube.com and youtu.be short links.
type YouTube struct{}

// Resolve implements Resolver.
func (YouTube) Resolve(u *url.URL) (ID, error) {
	switch u.Hostname() {
	case "www.youtube.com", "youtube.com":
		if u.Path != "/watch" {
			break
		}
		if v := u.Query().Get("v"); v != "" {
			return ID(v), nil
		}
		return "", notFound("watch url without v parameter")
	case "youtu.be":
		if id := strings.TrimLeft(u.Path, "/"); id != "" {
			return ID(id), nil
		}
		return "", notFound("short link without video path")
	}
	return "", notFound("unrecognized host " + u.Host)
}

func notFound(message string) error {
	return services.Wrap(services.ErrIdentifierNotFound, "mediaid", "youtube", message, nil)
}
