package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	db "github.com/smallTechOrg/ai-agent-boilerplate/internal/core/database"
	"github.com/smallTechOrg/ai-agent-boilerplate/internal/models"
)

var (
	// ErrDomainAlreadyExists is returned when a domain with the same
	// extracted address is already registered.
	ErrDomainAlreadyExists = errors.New("domain already exists")

	// ErrParentDomainNotFound is returned when the supplied parent_id does
	// not match any existing domain.
	ErrParentDomainNotFound = errors.New("parent domain not found")

	// ErrInvalidWebsiteURL is returned when the website URL cannot be
	// parsed into a valid hostname.
	ErrInvalidWebsiteURL = errors.New("invalid website url")
)

var nonAlnum = regexp.MustCompile(`[^A-Za-z0-9]+`)

// DomainService orchestrates domain registration and retrieval.
type DomainService struct {
	db db.DbClient
}

func NewDomainService(client db.DbClient) *DomainService {
	return &DomainService{db: client}
}

// AddDomain validates, extracts and persists a new domain derived from
// websiteURL. The key is the caller-supplied value (normalized uppercase)
// or auto-generated from the address. All checks run before the write, so a
// failed call leaves no partial state.
func (s *DomainService) AddDomain(ctx context.Context, websiteURL, key string, parentID *int64) (*models.Domain, error) {
	address, err := ExtractAddress(websiteURL)
	if err != nil {
		return nil, err
	}

	existing, err := s.db.GetDomainByAddress(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("lookup address: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrDomainAlreadyExists, address)
	}

	if parentID != nil {
		parent, err := s.db.GetDomainByID(ctx, *parentID)
		if err != nil {
			return nil, fmt.Errorf("lookup parent: %w", err)
		}
		if parent == nil {
			return nil, fmt.Errorf("%w: id=%d", ErrParentDomainNotFound, *parentID)
		}
	}

	return s.db.CreateDomain(ctx, resolveKey(key, address), address, parentID)
}

// GetDomain returns the domain with the given id, or nil when absent.
func (s *DomainService) GetDomain(ctx context.Context, id int64) (*models.Domain, error) {
	return s.db.GetDomainByID(ctx, id)
}

// ListDomains returns all domains ordered by creation time, oldest first.
func (s *DomainService) ListDomains(ctx context.Context) ([]models.Domain, error) {
	return s.db.ListDomains(ctx)
}

// ExtractAddress extracts and normalizes the registrable hostname from any
// URL-like string: prepend https:// when no scheme is present, parse, strip
// a single leading "www.", and require at least one dot in the remainder.
//
//	"https://www.example.com/a?x=1"  ->  "example.com"
//	"api.example.com"                ->  "api.example.com"
func ExtractAddress(websiteURL string) (string, error) {
	raw := strings.TrimSpace(websiteURL)
	if !strings.HasPrefix(strings.ToLower(raw), "http://") && !strings.HasPrefix(strings.ToLower(raw), "https://") {
		raw = "https://" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidWebsiteURL, websiteURL)
	}

	hostname := strings.ToLower(parsed.Hostname())
	if hostname == "" {
		return "", fmt.Errorf("%w: no hostname in %q", ErrInvalidWebsiteURL, websiteURL)
	}

	hostname = strings.TrimPrefix(hostname, "www.")

	if !strings.Contains(hostname, ".") {
		return "", fmt.Errorf("%w: %q has no TLD", ErrInvalidWebsiteURL, hostname)
	}

	return hostname, nil
}

// GenerateKey derives a domain key from its address: non-alphanumeric runs
// become a single underscore, the result is uppercased and trimmed.
//
//	"a..b.com"  ->  "A_B_COM"
func GenerateKey(address string) string {
	key := nonAlnum.ReplaceAllString(address, "_")
	return strings.Trim(strings.ToUpper(key), "_")
}

func resolveKey(rawKey, address string) string {
	if k := strings.TrimSpace(rawKey); k != "" {
		return strings.ToUpper(k)
	}
	return GenerateKey(address)
}
