package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tlweave2/AI-Job-Application-Agent/internal/model"
	"github.com/tlweave2/AI-Job-Application-Agent/pkg/llm"
)

func TestRun_EndToEndWithStub(t *testing.T) {
	runner := NewRunner(&StubClient{}, testProfile(), testFillConfig())

	form := &model.Form{
		Company: "Veridian Dynamics",
		Role:    "Software Engineer II",
		URL:     "https://jobs.example.com/veridian/swe-2",
		Fields: []model.FieldDescriptor{
			{Selector: "#email", Label: "Email Address", Kind: model.KindText, Required: true},
			{Selector: "#degree-level", Label: "Degree Level", Kind: model.KindSelect, Options: []string{"High School", "Bachelor's", "Master's", "PhD"}},
			{Selector: "#why-us", Label: "Why do you want to work here?", Kind: model.KindTextarea},
			{Selector: "#resume", Label: "Resume", Kind: model.KindFile, Required: true},
			{Selector: "#challenge", Label: "Coding Challenge", Kind: model.KindText},
		},
	}

	plan, err := runner.Run(context.Background(), form)
	require.NoError(t, err)
	require.Len(t, plan.Items, 5)

	// Items keep the form's field order.
	for i, field := range form.Fields {
		assert.Equal(t, field.Selector, plan.Items[i].Field.Selector)
	}

	items := make(map[string]model.PlanItem, len(plan.Items))
	for _, it := range plan.Items {
		items[it.Field.Selector] = it
	}

	assert.Equal(t, model.StateValueReady, items["#email"].State)
	assert.Equal(t, "tlweave2@asu.edu", items["#email"].Value.Value)

	assert.Equal(t, model.StateValueReady, items["#degree-level"].State)
	assert.Equal(t, "Master's", items["#degree-level"].Value.Value)

	assert.Equal(t, model.StateValueReady, items["#why-us"].State)
	assert.Equal(t, model.StrategyRAGGeneration, items["#why-us"].Decision.Strategy)
	assert.NotEmpty(t, items["#why-us"].Value.Value)

	assert.Equal(t, model.StateSkippedByPolicy, items["#resume"].State)
	assert.Equal(t, model.StateSkippedByPolicy, items["#challenge"].State)

	st := plan.Stats
	assert.Equal(t, 5, st.TotalFields)
	assert.Equal(t, 5, st.Classified)
	assert.Equal(t, 3, st.Fillable)
	assert.Equal(t, 2, st.ByStrategy[model.StrategySkipField])
	assert.InDelta(t, 0.6, st.AutomationRate, 1e-9)
	assert.False(t, st.SubmitReady) // a required upload stayed unfilled

	// Three classifications plus one essay hit the stub.
	assert.Equal(t, model.TokenUsage{InputTokens: 600, OutputTokens: 200}, st.Usage)

	assert.Equal(t, "Veridian Dynamics", plan.Company)
	assert.Equal(t, "Software Engineer II", plan.Role)
	assert.False(t, plan.CreatedAt.IsZero())
}

func TestRun_FieldFailureDoesNotAbortOthers(t *testing.T) {
	client := new(mockClient)
	client.On("Complete", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
		return strings.Contains(req.Prompt, "Email Address")
	})).Return(textResponse(`{"fill_strategy": "simple_mapping", "confidence": 0.9, "reasoning": "email", "mapped_to": "personal.email"}`), nil)
	client.On("Complete", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
		return strings.Contains(req.Prompt, "Spirit Animal")
	})).Return(nil, &openai.APIError{HTTPStatusCode: 400, Message: "bad request"})

	runner := newTestRunner(client, testFillConfig())
	form := &model.Form{Fields: []model.FieldDescriptor{
		{Selector: "#email", Label: "Email Address", Kind: model.KindText},
		{Selector: "#spirit", Label: "Spirit Animal", Kind: model.KindText},
	}}

	plan, err := runner.Run(context.Background(), form)
	require.NoError(t, err)
	require.Len(t, plan.Items, 2)

	assert.Equal(t, model.StateValueReady, plan.Items[0].State)
	assert.Equal(t, "tlweave2@asu.edu", plan.Items[0].Value.Value)

	assert.Equal(t, model.StateSkippedByFailure, plan.Items[1].State)
	assert.Equal(t, "classification_failed", plan.Items[1].Note)
	assert.Equal(t, 1, plan.Stats.Classified)
}

func TestRun_InvalidOptionFlagsReview(t *testing.T) {
	client := new(mockClient)
	client.On("Complete", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
		return strings.Contains(req.System, "Classify the field")
	})).Return(textResponse(`{"fill_strategy": "option_selection", "confidence": 0.9, "reasoning": "bounded"}`), nil)
	client.On("Complete", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
		return strings.Contains(req.System, "one option")
	})).Return(textResponse("Penguin"), nil)

	runner := newTestRunner(client, testFillConfig())
	form := &model.Form{Fields: []model.FieldDescriptor{
		{Selector: "#fav", Label: "Favorite Framework", Kind: model.KindSelect, Options: []string{"Spring", "Rails"}},
	}}

	plan, err := runner.Run(context.Background(), form)
	require.NoError(t, err)

	item := plan.Items[0]
	assert.Equal(t, model.StateSkippedByFailure, item.State)
	assert.True(t, item.ManualReview)
	assert.Contains(t, item.Note, "not one of the 2 allowed options")
	assert.Equal(t, model.StrategySkipField, item.EffectiveStrategy())
}

func TestRun_TruncatedEssayStillFillable(t *testing.T) {
	cfg := testFillConfig()
	cfg.EssayMaxWords = 10
	runner := NewRunner(&StubClient{}, testProfile(), cfg)

	form := &model.Form{Fields: []model.FieldDescriptor{
		{Selector: "#why", Label: "Why this team?", Kind: model.KindTextarea},
	}}

	plan, err := runner.Run(context.Background(), form)
	require.NoError(t, err)

	item := plan.Items[0]
	assert.Equal(t, model.StateValueReady, item.State)
	require.NotNil(t, item.Value)
	assert.True(t, item.Value.Truncated)
	assert.Contains(t, item.Note, "truncated")
	assert.Equal(t, 1, plan.Stats.Fillable)
}

func TestRun_ProviderUnreachable(t *testing.T) {
	client := new(mockClient)
	client.On("Complete", mock.Anything, mock.Anything).
		Return(nil, &openai.APIError{HTTPStatusCode: 503, Message: "down"})

	runner := newTestRunner(client, testFillConfig())
	form := &model.Form{Fields: []model.FieldDescriptor{
		textField("#first", "First Name"),
		textField("#last", "Last Name"),
	}}

	plan, err := runner.Run(context.Background(), form)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider unreachable")

	require.NotNil(t, plan)
	require.Len(t, plan.Items, 2)
	for _, it := range plan.Items {
		assert.Equal(t, model.StateSkippedByFailure, it.State)
		assert.Equal(t, "classification_failed", it.Note)
	}
	assert.Zero(t, plan.Stats.Classified)
}

func TestRun_CancelledContext(t *testing.T) {
	client := new(mockClient)
	runner := newTestRunner(client, testFillConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	form := &model.Form{Fields: []model.FieldDescriptor{
		textField("#first", "First Name"),
		textField("#last", "Last Name"),
		textField("#email", "Email"),
	}}

	plan, err := runner.Run(ctx, form)
	require.NoError(t, err)
	require.Len(t, plan.Items, 3)
	for _, it := range plan.Items {
		assert.Equal(t, model.StateSkippedByFailure, it.State)
		assert.Equal(t, "cancelled", it.Note)
	}
	client.AssertNotCalled(t, "Complete")
}

func TestRun_NilForm(t *testing.T) {
	runner := newTestRunner(new(mockClient), testFillConfig())

	plan, err := runner.Run(context.Background(), nil)
	require.Error(t, err)
	assert.Nil(t, plan)
}

func TestRun_EmptyFieldList(t *testing.T) {
	runner := NewRunner(&StubClient{}, testProfile(), testFillConfig())

	plan, err := runner.Run(context.Background(), &model.Form{Company: "Initech"})
	require.NoError(t, err)
	assert.Empty(t, plan.Items)
	assert.Zero(t, plan.Stats.TotalFields)
	assert.Zero(t, plan.Stats.EstimatedMS)
	assert.False(t, plan.Stats.SubmitReady)
	assert.Equal(t, "Initech", plan.Company)
}

func TestRun_AssignsUniqueRunID(t *testing.T) {
	runner := NewRunner(&StubClient{}, testProfile(), testFillConfig())

	first, err := runner.Run(context.Background(), &model.Form{})
	require.NoError(t, err)
	second, err := runner.Run(context.Background(), &model.Form{})
	require.NoError(t, err)

	_, err = uuid.Parse(first.RunID)
	require.NoError(t, err)
	assert.NotEqual(t, first.RunID, second.RunID)
}
