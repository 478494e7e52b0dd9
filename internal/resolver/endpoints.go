package resolver

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/ginjaninja78/sales-summary-report/internal/types"
)

// siteCodeLen is the length of the store code that precedes the numeric
// suffix of a site id.
const siteCodeLen = 3

// DefaultPolicies maps each supported routing policy to its network prefixes.
func DefaultPolicies() map[string][]string {
	return map[string][]string{
		"16": {"10.16."},
		"28": {"10.28."},
	}
}

// FormatSiteFragment turns a site id into the host fragment appended to a
// network prefix: the first three characters, a dot, then the remaining
// digits as a number without leading zeros ("13100" -> "131.0",
// "13105" -> "131.5").
func FormatSiteFragment(siteID string) (string, error) {
	if len(siteID) <= siteCodeLen {
		return "", &types.ErrFormat{SiteID: siteID, Err: errors.New("site id is too short")}
	}

	suffix := siteID[siteCodeLen:]
	for _, c := range suffix {
		if c < '0' || c > '9' {
			return "", &types.ErrFormat{SiteID: siteID, Err: fmt.Errorf("suffix %q is not numeric", suffix)}
		}
	}

	n, err := strconv.Atoi(suffix)
	if err != nil {
		return "", &types.ErrFormat{SiteID: siteID, Err: err}
	}

	return fmt.Sprintf("%s.%d", siteID[:siteCodeLen], n), nil
}

// Endpoints derives the candidate endpoints of a site under a routing policy.
// An unknown policy yields no candidates and no error.
func Endpoints(siteID, policy string, policies map[string][]string) ([]string, error) {
	fragment, err := FormatSiteFragment(siteID)
	if err != nil {
		return nil, err
	}

	prefixes := policies[policy]
	endpoints := make([]string, 0, len(prefixes))
	for _, prefix := range prefixes {
		endpoints = append(endpoints, prefix+fragment)
	}
	return endpoints, nil
}
