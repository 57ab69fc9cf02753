// Package memory provides an in-memory DbClient used by tests and local
// experiments. It mirrors the Postgres upsert semantics of the real client.
package memory

import (
	"context"
	"sync"
	"time"

	db "github.com/smallTechOrg/ai-agent-boilerplate/internal/core/database"
	"github.com/smallTechOrg/ai-agent-boilerplate/internal/models"
)

type promptKey struct {
	domain, agentType, promptType string
}

type chatInfoRow struct {
	sessionID   string
	contactName string
	email       string
	mobile      string
	country     string
	requestType string
	domain      string
	status      string
	remarks     string
	isActive    bool
	metadata    []byte
	createdAt   time.Time
}

type Store struct {
	mu           sync.Mutex
	domains      []models.Domain
	nextDomainID int64
	prompts      map[promptKey]models.Prompt
	nextPromptID int64
	chatInfo     map[string]*chatInfoRow
	infoOrder    []string
	history      map[string][]models.ChatMessage

	// Call counters and error injectors for assertions.
	CreateDomainCalls    int
	SaveLeadContactCalls int
	UpdateChatInfoCalls  int
	PingErr              error
}

func NewStore() *Store {
	return &Store{
		nextDomainID: 1,
		nextPromptID: 1,
		prompts:      make(map[promptKey]models.Prompt),
		chatInfo:     make(map[string]*chatInfoRow),
		history:      make(map[string][]models.ChatMessage),
	}
}

// Domains

func (s *Store) CreateDomain(_ context.Context, key, address string, parentID *int64) (*models.Domain, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CreateDomainCalls++

	d := models.Domain{
		ID:        s.nextDomainID,
		Key:       key,
		Address:   address,
		ParentID:  parentID,
		CreatedAt: time.Now(),
	}
	s.nextDomainID++
	s.domains = append(s.domains, d)
	return &d, nil
}

func (s *Store) GetDomainByID(_ context.Context, id int64) (*models.Domain, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.domains {
		if s.domains[i].ID == id {
			d := s.domains[i]
			return &d, nil
		}
	}
	return nil, nil
}

func (s *Store) GetDomainByAddress(_ context.Context, address string) (*models.Domain, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.domains {
		if s.domains[i].Address == address {
			d := s.domains[i]
			return &d, nil
		}
	}
	return nil, nil
}

func (s *Store) ListDomains(_ context.Context) ([]models.Domain, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Domain, len(s.domains))
	copy(out, s.domains)
	return out, nil
}

func (s *Store) FindParentKey(_ context.Context, domainKey string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.domains {
		if s.domains[i].Key != domainKey || s.domains[i].ParentID == nil {
			continue
		}
		for j := range s.domains {
			if s.domains[j].ID == *s.domains[i].ParentID {
				return s.domains[j].Key, nil
			}
		}
	}
	return "", nil
}

// Prompts

func (s *Store) FindPromptText(_ context.Context, domain, agentType, promptType string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, found := s.prompts[promptKey{domain, agentType, promptType}]
	return p.Text, found, nil
}

func (s *Store) ListPrompts(_ context.Context) ([]models.Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Prompt, 0, len(s.prompts))
	for _, p := range s.prompts {
		out = append(out, p)
	}
	return out, nil
}

func (s *Store) UpsertPrompt(_ context.Context, domain, agentType, promptType, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := promptKey{domain, agentType, promptType}
	if p, found := s.prompts[k]; found {
		p.Text = text
		s.prompts[k] = p
		return nil
	}
	s.prompts[k] = models.Prompt{
		ID:        s.nextPromptID,
		Domain:    domain,
		AgentType: agentType,
		Type:      promptType,
		Text:      text,
		CreatedAt: time.Now(),
	}
	s.nextPromptID++
	return nil
}

// Leads

func (s *Store) EnsureChatInfo(_ context.Context, sessionID, requestType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.chatInfo[sessionID]; found {
		return nil
	}
	s.insertChatInfoLocked(sessionID, requestType)
	return nil
}

func (s *Store) SaveLeadContact(_ context.Context, sessionID string, contact models.LeadContact, requestType, domain string, metadata []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SaveLeadContactCalls++

	row, found := s.chatInfo[sessionID]
	if !found {
		row = s.insertChatInfoLocked(sessionID, requestType)
	}
	// Enrich-only merge for contact fields.
	if contact.ContactName != "" {
		row.contactName = contact.ContactName
	}
	if contact.Email != "" {
		row.email = contact.Email
	}
	if contact.Mobile != "" {
		row.mobile = contact.Mobile
	}
	if contact.Country != "" {
		row.country = contact.Country
	}
	row.requestType = requestType
	row.domain = domain
	row.metadata = metadata
	return nil
}

func (s *Store) UpdateChatInfo(_ context.Context, sessionID string, status, remarks *string, isActive *bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.UpdateChatInfoCalls++

	row, found := s.chatInfo[sessionID]
	if !found {
		row = s.insertChatInfoLocked(sessionID, "")
	}
	if status != nil {
		row.status = *status
	}
	if remarks != nil {
		row.remarks = *remarks
	}
	if isActive != nil {
		row.isActive = *isActive
	}
	return nil
}

func (s *Store) ListActiveLeads(_ context.Context) ([]models.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Lead
	// Newest first.
	for i := len(s.infoOrder) - 1; i >= 0; i-- {
		row := s.chatInfo[s.infoOrder[i]]
		if !row.isActive {
			continue
		}
		out = append(out, models.Lead{
			SessionID:    row.sessionID,
			Name:         row.contactName,
			Email:        row.email,
			MobileNumber: row.mobile,
			Country:      row.country,
			Status:       row.status,
			Remarks:      row.remarks,
		})
	}
	return out, nil
}

// Lead returns the stored row's dashboard view for assertions.
func (s *Store) Lead(sessionID string) (models.Lead, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, found := s.chatInfo[sessionID]
	if !found {
		return models.Lead{}, false
	}
	return models.Lead{
		SessionID:    row.sessionID,
		Name:         row.contactName,
		Email:        row.email,
		MobileNumber: row.mobile,
		Country:      row.country,
		Status:       row.status,
		Remarks:      row.remarks,
	}, true
}

func (s *Store) insertChatInfoLocked(sessionID, requestType string) *chatInfoRow {
	row := &chatInfoRow{
		sessionID:   sessionID,
		requestType: requestType,
		status:      string(models.StatusOpen),
		isActive:    true,
		metadata:    []byte("{}"),
		createdAt:   time.Now(),
	}
	s.chatInfo[sessionID] = row
	s.infoOrder = append(s.infoOrder, sessionID)
	return row
}

// Conversation history

func (s *Store) AppendChatMessage(_ context.Context, sessionID string, msg models.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history[sessionID] = append(s.history[sessionID], msg)
	return nil
}

func (s *Store) ListChatMessages(_ context.Context, sessionID string) ([]models.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ChatMessage, len(s.history[sessionID]))
	copy(out, s.history[sessionID])
	return out, nil
}

func (s *Store) Ping(_ context.Context) error {
	return s.PingErr
}

func (s *Store) Close() error {
	return nil
}

var _ db.DbClient = (*Store)(nil)
