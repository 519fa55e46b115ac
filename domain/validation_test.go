package domain

import (
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validContent() *JobDescriptionContent {
	return &JobDescriptionContent{
		Title:                  "Backend Engineer",
		RoleSummary:            "Build APIs",
		KeyResponsibilities:    []string{"Design services"},
		RequiredQualifications: []string{"Go"},
	}
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected *ValidationError, got %v", err)
	out := map[string]string{}
	for _, f := range verr.Fields {
		out[f.Field] = f.Reason
	}
	return out
}

func TestValidateGenerateRequest(t *testing.T) {
	err := Validate(&GenerateRequest{
		KeyResponsibilitiesInput: []string{"a"},
		RequiredSkillsInput:      []string{"b"},
	})
	fields := fieldsOf(t, err)
	assert.Equal(t, "field required", fields["job_title_input"])
	assert.Len(t, fields, 1)

	ok := &GenerateRequest{
		JobTitleInput:            "SRE",
		KeyResponsibilitiesInput: []string{},
		RequiredSkillsInput:      []string{"Linux"},
	}
	assert.NoError(t, Validate(ok))
}

func TestValidateCreateRequest(t *testing.T) {
	t.Run("missing content", func(t *testing.T) {
		fields := fieldsOf(t, Validate(&CreateRequest{JobTitle: "x"}))
		assert.Contains(t, fields, "jd_content")
	})

	t.Run("nested path", func(t *testing.T) {
		content := validContent()
		content.RoleSummary = ""
		fields := fieldsOf(t, Validate(&CreateRequest{JobTitle: "x", JDContent: content}))
		assert.Contains(t, fields, "jd_content.role_summary")
	})

	t.Run("empty lists accepted", func(t *testing.T) {
		content := validContent()
		content.KeyResponsibilities = []string{}
		content.RequiredQualifications = []string{}
		assert.NoError(t, Validate(&CreateRequest{JobTitle: "x", JDContent: content}))
	})
}

func TestValidateUpdateRequest(t *testing.T) {
	assert.NoError(t, Validate(&UpdateRequest{}))

	bad := JobStatus("archived")
	fields := fieldsOf(t, Validate(&UpdateRequest{Status: &bad}))
	assert.Equal(t, "status must be 'active' or 'inactive'", fields["status"])

	blank := JobStatus("")
	fields = fieldsOf(t, Validate(&UpdateRequest{Status: &blank}))
	assert.Contains(t, fields, "status")

	empty := ""
	fields = fieldsOf(t, Validate(&UpdateRequest{JobTitle: &empty}))
	assert.Equal(t, "must have at least 1 characters", fields["job_title"])

	content := validContent()
	content.Title = ""
	fields = fieldsOf(t, Validate(&UpdateRequest{JDContent: content}))
	assert.Contains(t, fields, "jd_content.job_title")

	inactive := StatusInactive
	assert.NoError(t, Validate(&UpdateRequest{Status: &inactive}))
}

func TestValidateListQuery(t *testing.T) {
	assert.NoError(t, Validate(&ListQuery{Offset: 0, Limit: 100}))

	fields := fieldsOf(t, Validate(&ListQuery{Offset: -1, Limit: 1001}))
	assert.Equal(t, "must be at least 0", fields["offset"])
	assert.Equal(t, "must be at most 1000", fields["limit"])
}

func TestDecodeError(t *testing.T) {
	var dst GenerateRequest

	fields := fieldsOf(t, DecodeError(io.EOF))
	assert.Equal(t, "request body is empty", fields["body"])

	err := json.Unmarshal([]byte(`{"job_title_input":`), &dst)
	require.Error(t, err)
	fields = fieldsOf(t, DecodeError(err))
	assert.Contains(t, fields, "body")

	err = json.Unmarshal([]byte(`{"job_title_input": 5}`), &dst)
	require.Error(t, err)
	fields = fieldsOf(t, DecodeError(err))
	assert.Equal(t, "expected string", fields["job_title_input"])
}
