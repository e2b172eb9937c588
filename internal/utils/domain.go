package utils

import (
	"errors"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// ErrNoRegistrableDomain is returned when a host has no label left once its public suffix is removed
var ErrNoRegistrableDomain = errors.New("no registrable domain")

// RegistrableLabel returns the second-level label of host, the part of the
// registrable domain left once the public suffix is removed.
// "mail.techcompany.co.uk" yields "techcompany".
func RegistrableLabel(host string) (string, error) {
	host = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(host)), ".")
	if host == "" {
		return "", ErrNoRegistrableDomain
	}

	etld1, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return "", err
	}

	suffix, _ := publicsuffix.PublicSuffix(etld1)
	label := strings.TrimSuffix(strings.TrimSuffix(etld1, suffix), ".")
	if label == "" {
		return "", ErrNoRegistrableDomain
	}
	return label, nil
}

// HostOf extracts the lowercased host of a link, without scheme, "www." prefix,
// port, path, query or fragment. Links without a scheme are accepted.
func HostOf(link string) string {
	host := strings.ToLower(strings.TrimSpace(link))
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	host = strings.TrimPrefix(host, "www.")
	if i := strings.IndexAny(host, "/?#:"); i >= 0 {
		host = host[:i]
	}
	return host
}

// SiteLabel names the site a link points to: its registrable label when the
// public suffix list knows the host, otherwise the first label of the host.
// "https://www.linkedin.com/in/x" yields "linkedin".
func SiteLabel(link string) string {
	host := HostOf(link)
	if label, err := RegistrableLabel(host); err == nil {
		return label
	}
	if i := strings.IndexByte(host, '.'); i >= 0 {
		return host[:i]
	}
	return host
}
