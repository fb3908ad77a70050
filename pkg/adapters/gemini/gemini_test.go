package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/aretw0/voyant/pkg/dispatch"
	"github.com/aretw0/voyant/pkg/domain"
)

func TestToContents_MapsRoles(t *testing.T) {
	history := []domain.Message{
		domain.NewSystemMessage("you are a travel agency"),
		domain.NewUserMessage("find me a flight"),
		domain.NewAssistantMessage("", domain.ToolCall{
			ID:   "c1",
			Name: domain.ToolSearchFlights,
			Args: map[string]any{"departure_id": "DUR"},
		}),
		domain.NewToolMessage(domain.ToolResult{
			ID: "c1", Name: domain.ToolSearchFlights, Content: `[{"price":120}]`,
		}),
		domain.NewAssistantMessage("Here is what I found."),
	}

	system, contents := toContents(history)

	require.NotNil(t, system)
	assert.Equal(t, "you are a travel agency", system.Parts[0].Text)

	require.Len(t, contents, 4)
	assert.Equal(t, roleUser, contents[0].Role)
	assert.Equal(t, "find me a flight", contents[0].Parts[0].Text)

	assert.Equal(t, roleModel, contents[1].Role)
	require.NotNil(t, contents[1].Parts[0].FunctionCall)
	assert.Equal(t, domain.ToolSearchFlights, contents[1].Parts[0].FunctionCall.Name)

	assert.Equal(t, roleUser, contents[2].Role)
	require.NotNil(t, contents[2].Parts[0].FunctionResponse)
	assert.Equal(t, domain.ToolSearchFlights, contents[2].Parts[0].FunctionResponse.Name)

	assert.Equal(t, roleModel, contents[3].Role)
	assert.Equal(t, "Here is what I found.", contents[3].Parts[0].Text)
}

func TestToContents_MergesParallelResults(t *testing.T) {
	history := []domain.Message{
		domain.NewUserMessage("flights and hotels please"),
		domain.NewAssistantMessage("",
			domain.ToolCall{ID: "c1", Name: domain.ToolSearchFlights},
			domain.ToolCall{ID: "c2", Name: domain.ToolSearchHotels},
		),
		domain.NewToolMessage(domain.ToolResult{ID: "c1", Name: domain.ToolSearchFlights, Content: "[]"}),
		domain.NewToolMessage(domain.ToolResult{ID: "c2", Name: domain.ToolSearchHotels, Content: "[]"}),
	}

	_, contents := toContents(history)

	require.Len(t, contents, 3, "both results travel in one function-response turn")
	require.Len(t, contents[2].Parts, 2)
	assert.Equal(t, domain.ToolSearchFlights, contents[2].Parts[0].FunctionResponse.Name)
	assert.Equal(t, domain.ToolSearchHotels, contents[2].Parts[1].FunctionResponse.Name)
}

func TestToolResponsePayload(t *testing.T) {
	list := toolResponsePayload(`[{"price":120}]`)
	require.Contains(t, list, "results")
	assert.Len(t, list["results"], 1)

	obj := toolResponsePayload(`{"error":"could not resolve location: xyland","results":[]}`)
	assert.Equal(t, "could not resolve location: xyland", obj["error"])

	plain := toolResponsePayload("bad tool name, retry")
	assert.Equal(t, "bad tool name, retry", plain["content"])
}

func TestDeclarations_SingleToolBlock(t *testing.T) {
	tools := declarations(dispatch.Catalog())

	require.Len(t, tools, 1)
	require.Len(t, tools[0].FunctionDeclarations, 2)

	flights := tools[0].FunctionDeclarations[0]
	assert.Equal(t, domain.ToolSearchFlights, flights.Name)
	require.NotNil(t, flights.Parameters)
	assert.Equal(t, genai.TypeObject, flights.Parameters.Type)
	assert.Len(t, flights.Parameters.Properties, 8)
	assert.ElementsMatch(t, []string{"departure_id", "arrival_id", "outbound_date"}, flights.Parameters.Required)

	departure, ok := flights.Parameters.Properties["departure_id"]
	require.True(t, ok)
	assert.Equal(t, genai.TypeString, departure.Type)
	assert.NotEmpty(t, departure.Description)
}

func TestDeclarations_EmptyCatalog(t *testing.T) {
	assert.Nil(t, declarations(nil))
}

func TestDecision_TextOnly(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Role:  roleModel,
				Parts: []*genai.Part{{Text: "The cheapest flight is $120."}},
			},
		}},
	}

	msg := decision(resp)

	assert.Equal(t, domain.RoleAssistant, msg.Role)
	assert.Equal(t, "The cheapest flight is $120.", msg.Content)
	assert.False(t, msg.HasToolCalls())
}

func TestDecision_SynthesizesCallIDs(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Role: roleModel,
				Parts: []*genai.Part{
					{FunctionCall: &genai.FunctionCall{Name: domain.ToolSearchFlights, Args: map[string]any{"departure_id": "DUR"}}},
					{FunctionCall: &genai.FunctionCall{Name: domain.ToolSearchHotels, Args: map[string]any{"location": "harare"}}},
				},
			},
		}},
	}

	msg := decision(resp)

	require.Len(t, msg.ToolCalls, 2)
	assert.Equal(t, "call_1", msg.ToolCalls[0].ID)
	assert.Equal(t, "call_2", msg.ToolCalls[1].ID)
	assert.Equal(t, domain.ToolSearchFlights, msg.ToolCalls[0].Name)
	assert.Equal(t, "DUR", msg.ToolCalls[0].Args["departure_id"])
}

func TestDecision_EmptyResponse(t *testing.T) {
	msg := decision(&genai.GenerateContentResponse{})

	assert.Equal(t, domain.RoleAssistant, msg.Role)
	assert.Empty(t, msg.Content)
	assert.False(t, msg.HasToolCalls())
}
