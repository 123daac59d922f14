package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/questflow/internal/testutils"
	"github.com/aretw0/questflow/pkg/domain"
	"github.com/aretw0/questflow/pkg/engine"
)

func TestValidateNode(t *testing.T) {
	requiredMulti := &domain.Node{ID: "n", QuestionID: "x", Control: domain.ControlMulti,
		Validation: &domain.Validation{Required: true}}
	boundedMulti := &domain.Node{ID: "n", QuestionID: "x", Control: domain.ControlMulti,
		Validation: &domain.Validation{MinItems: intp(2), MaxItems: intp(3)}}
	requiredSingle := &domain.Node{ID: "n", QuestionID: "x", Control: domain.ControlSingle,
		Validation: &domain.Validation{Required: true}}
	optionalSingle := &domain.Node{ID: "n", QuestionID: "x", Control: domain.ControlSingle}

	options := []domain.Option{
		{Value: "none", Label: "None", Type: domain.OptionNone},
		{Value: "a", Label: "A"},
		{Value: "b", Label: "B"},
		{Value: "c", Label: "C"},
		{Value: "other", Label: "Other", Type: domain.OptionOther},
	}

	tests := []struct {
		name    string
		node    *domain.Node
		answers domain.Answers
		options []domain.Option
		wantErr string
	}{
		{"Required Multi Missing", requiredMulti, domain.Answers{}, options, engine.MsgRequired},
		{"Required Multi Empty", requiredMulti, domain.Answers{"x": domain.Multi()}, options, engine.MsgSelectOne},
		{"Required Multi Filled", requiredMulti, domain.Answers{"x": domain.Multi("a")}, options, ""},
		{"Required Single Missing", requiredSingle, domain.Answers{}, options, engine.MsgRequired},
		{"Required Single Empty", requiredSingle, domain.Answers{"x": domain.Single("")}, options, engine.MsgRequired},
		{"Required Single Present", requiredSingle, domain.Answers{"x": domain.Single("a")}, options, ""},
		{"Optional Missing", optionalSingle, domain.Answers{}, options, ""},
		{"Multi Not A List", requiredMulti, domain.Answers{"x": domain.Single("a")}, options, engine.MsgExpectArray},
		{"Multi Mixed List", requiredMulti, domain.Answers{"x": domain.Raw([]any{"a", 1})}, options, engine.MsgExpectArray},
		{"Below MinItems", boundedMulti, domain.Answers{"x": domain.Multi("a")}, options, "Select at least 2 option(s)."},
		{"Above MaxItems", boundedMulti, domain.Answers{"x": domain.Multi("a", "b", "c", "none")}, options, "Select at most 3 option(s)."},
		{"None Combined", requiredMulti, domain.Answers{"x": domain.Multi("none", "a")}, options, `"none" cannot be combined with other selections.`},
		{"None Alone", requiredMulti, domain.Answers{"x": domain.Multi("none")}, options, ""},
		{"Multi Unknown Value", requiredMulti, domain.Answers{"x": domain.Multi("a", "zzz")}, options, `Invalid option: "zzz".`},
		{"Multi Unconstrained", requiredMulti, domain.Answers{"x": domain.Multi("anything")}, nil, ""},
		{"Single Not A String", requiredSingle, domain.Answers{"x": domain.Multi("a")}, options, engine.MsgExpectString},
		{"Single Unknown Value", requiredSingle, domain.Answers{"x": domain.Single("zzz")}, options, `Invalid option: "zzz".`},
		{"Single Unconstrained", requiredSingle, domain.Answers{"x": domain.Single("zzz")}, nil, ""},
		{"Single Other Without Text", requiredSingle, domain.Answers{"x": domain.Single("other")}, options, engine.MsgOtherText},
		{"Single Other Blank Text", requiredSingle, domain.Answers{"x": domain.Single("other"), "x_other_text": domain.Single(" \t")}, options, engine.MsgOtherText},
		{"Single Other With Text", requiredSingle, domain.Answers{"x": domain.Single("other"), "x_other_text": domain.Single("Zig")}, options, ""},
		{"Multi Other Without Text", requiredMulti, domain.Answers{"x": domain.Multi("a", "other")}, options, engine.MsgOtherText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := engine.ValidateNode(tt.node, tt.answers, tt.options)
			if tt.wantErr == "" {
				assert.True(t, res.Valid, "unexpected error: %s", res.Error)
				assert.Empty(t, res.Error)
				return
			}
			assert.False(t, res.Valid)
			assert.Equal(t, tt.wantErr, res.Error)
		})
	}
}

func TestValidateNode_NoneExclusivity(t *testing.T) {
	node := &domain.Node{ID: "n_x", QuestionID: "x", Control: domain.ControlMulti}
	options := []domain.Option{
		{Value: "none", Label: "None", Type: domain.OptionNone},
		{Value: "a", Label: "A"},
	}

	res := engine.ValidateNode(node, domain.Answers{"x": domain.Multi("none", "a")}, options)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Error, "cannot be combined")

	res = engine.ValidateNode(node, domain.Answers{"x": domain.Multi("none")}, options)
	assert.True(t, res.Valid)
}

func TestValidateAll(t *testing.T) {
	flow := testutils.StacksFlow()

	t.Run("Valid", func(t *testing.T) {
		report := engine.ValidateAll(flow, domain.Answers{
			"stacks":   domain.Multi("web"),
			"web_lang": domain.Multi("ts"),
			"pkg":      domain.Single("pnpm"),
		})
		assert.True(t, report.Valid)
		assert.Empty(t, report.Errors)
	})

	t.Run("Required Root Missing", func(t *testing.T) {
		report := engine.ValidateAll(flow, domain.Answers{})
		assert.False(t, report.Valid)
		assert.Equal(t, []engine.FieldError{
			{NodeID: "q_stacks", Field: "stacks", Message: engine.MsgRequired},
			{NodeID: "q_pkg", Field: "pkg", Message: engine.MsgRequired},
		}, report.Errors)
	})

	t.Run("Reachable Beyond The Gate", func(t *testing.T) {
		// Traversal stops at the empty root; validation still reaches q_pkg.
		report := engine.ValidateAll(flow, domain.Answers{"stacks": domain.Multi()})
		assert.False(t, report.Valid)
		assert.Equal(t, []engine.FieldError{
			{NodeID: "q_stacks", Field: "stacks", Message: engine.MsgSelectOne},
			{NodeID: "q_pkg", Field: "pkg", Message: engine.MsgRequired},
		}, report.Errors)
	})

	t.Run("Every Reachable Node Reported", func(t *testing.T) {
		report := engine.ValidateAll(flow, domain.Answers{
			"stacks":   domain.Multi("web"),
			"web_lang": domain.Multi("cobol"),
		})
		assert.False(t, report.Valid)
		assert.Equal(t, []engine.FieldError{
			{NodeID: "q_web_lang", Field: "web_lang", Message: `Invalid option: "cobol".`},
			{NodeID: "q_pkg", Field: "pkg", Message: engine.MsgRequired},
		}, report.Errors)
	})

	t.Run("Unreachable Branch Ignored", func(t *testing.T) {
		report := engine.ValidateAll(flow, domain.Answers{
			"stacks":      domain.Multi("web"),
			"web_lang":    domain.Multi("ts"),
			"server_lang": domain.Multi("cobol"),
			"pkg":         domain.Single("npm"),
		})
		assert.True(t, report.Valid)
	})

	t.Run("Nil Flow", func(t *testing.T) {
		report := engine.ValidateAll(nil, domain.Answers{})
		assert.True(t, report.Valid)
	})
}
