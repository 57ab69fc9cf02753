package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallTechOrg/ai-agent-boilerplate/internal/core/database/memory"
	"github.com/smallTechOrg/ai-agent-boilerplate/internal/core/llm"
	"github.com/smallTechOrg/ai-agent-boilerplate/internal/models"
)

const testSessionID = "3f1c8f7e-0f67-4a3e-9b63-5d2c1a3f9a11"

func newExtractor(store *memory.Store, provider llm.Provider) *LeadExtractor {
	return NewLeadExtractor(store, provider, NewPromptService(store))
}

func TestProcessSavesSalesContact(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	mock := llm.NewMockLLM()
	mock.GenerateReply = `{"contact_name": "Ada", "email": "ada@acme.com", "mobile": "", "country": ""}`

	ext := newExtractor(store, mock)
	err := ext.Process(ctx, "I'm Ada, reach me at ada@acme.com", testSessionID, models.AgentTypeSales, "ACME_COM")
	require.NoError(t, err)

	lead, found := store.Lead(testSessionID)
	require.True(t, found)
	assert.Equal(t, "Ada", lead.Name)
	assert.Equal(t, "ada@acme.com", lead.Email)
}

func TestProcessStripsMarkdownFences(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	mock := llm.NewMockLLM()
	mock.GenerateReply = "```json\n{\"contact_name\": \"Ada\", \"email\": \"\", \"mobile\": \"\", \"country\": \"\"}\n```"

	ext := newExtractor(store, mock)
	require.NoError(t, ext.Process(ctx, "I'm Ada", testSessionID, models.AgentTypeSales, "ACME_COM"))

	lead, found := store.Lead(testSessionID)
	require.True(t, found)
	assert.Equal(t, "Ada", lead.Name)
}

func TestProcessMalformedJSONSavesNothing(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	mock := llm.NewMockLLM()
	mock.GenerateReply = "I could not find any contact info, sorry!"

	ext := newExtractor(store, mock)
	err := ext.Process(ctx, "just browsing", testSessionID, models.AgentTypeSales, "ACME_COM")
	require.NoError(t, err, "parse failures are not errors")
	assert.Zero(t, store.SaveLeadContactCalls)
}

func TestProcessNonSalesNeedsDetectedName(t *testing.T) {
	ctx := context.Background()

	t.Run("name detected", func(t *testing.T) {
		store := memory.NewStore()
		mock := llm.NewMockLLM()
		mock.GenerateReply = `{"name_detected": true, "contact_name": "Grace"}`

		ext := newExtractor(store, mock)
		require.NoError(t, ext.Process(ctx, "I'm Grace", testSessionID, models.AgentTypeGeneric, "ACME_COM"))

		lead, found := store.Lead(testSessionID)
		require.True(t, found)
		assert.Equal(t, "Grace", lead.Name)
	})

	t.Run("contact fields alone are not enough", func(t *testing.T) {
		store := memory.NewStore()
		mock := llm.NewMockLLM()
		mock.GenerateReply = `{"name_detected": false, "contact_name": "", "email": "x@y.com"}`

		ext := newExtractor(store, mock)
		require.NoError(t, ext.Process(ctx, "x@y.com", testSessionID, models.AgentTypeGeneric, "ACME_COM"))
		assert.Zero(t, store.SaveLeadContactCalls)
	})
}

func TestProcessEnrichesWithoutErasing(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	mock := llm.NewMockLLM()
	ext := newExtractor(store, mock)

	mock.GenerateReply = `{"contact_name": "Ada", "email": "ada@acme.com", "mobile": "", "country": ""}`
	require.NoError(t, ext.Process(ctx, "first message", testSessionID, models.AgentTypeSales, "ACME_COM"))

	// A later message with only a phone number must not erase the email.
	mock.GenerateReply = `{"contact_name": "", "email": "", "mobile": "+44123", "country": ""}`
	require.NoError(t, ext.Process(ctx, "second message", testSessionID, models.AgentTypeSales, "ACME_COM"))

	lead, found := store.Lead(testSessionID)
	require.True(t, found)
	assert.Equal(t, "Ada", lead.Name)
	assert.Equal(t, "ada@acme.com", lead.Email)
	assert.Equal(t, "+44123", lead.MobileNumber)
}

func TestProcessAlwaysRecordsRequestType(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	mock := llm.NewMockLLM()
	mock.GenerateReply = `{}`

	ext := newExtractor(store, mock)
	require.NoError(t, ext.Process(ctx, "hello", testSessionID, models.AgentTypeGeneric, "ACME_COM"))

	_, found := store.Lead(testSessionID)
	assert.True(t, found, "chat_info row exists even with no contact info")
}

func TestExtractionPromptSubstitutesMessage(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.UpsertPrompt(ctx, "ACME_COM", "sales", "fetch-contact-info",
		"Extract contact info from: {message}"))

	mock := llm.NewMockLLM()
	mock.GenerateReply = `{}`

	ext := newExtractor(store, mock)
	require.NoError(t, ext.Process(ctx, "call me maybe", testSessionID, models.AgentTypeSales, "ACME_COM"))
	assert.Equal(t, "Extract contact info from: call me maybe", mock.LastUserPrompt)
}
