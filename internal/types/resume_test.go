package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResumeData_Defaults(t *testing.T) {
	d := NewResumeData()

	assert.Empty(t, d.Name)
	assert.Empty(t, d.Email)
	assert.Empty(t, d.Phone)
	require.Len(t, d.Education, 1)
	require.Len(t, d.Experience, 1)
	require.Len(t, d.Skills, 1)
	assert.True(t, d.Education[0].IsBlank())
	assert.True(t, d.Experience[0].IsBlank())
	assert.Equal(t, "", d.Skills[0])
	assert.Equal(t, SocialLinks{}, d.Social)
}

func TestResumeData_Normalize(t *testing.T) {
	d := ResumeData{Name: "Ada"}

	n := d.Normalize()

	assert.Equal(t, "Ada", n.Name)
	assert.Len(t, n.Education, 1)
	assert.Len(t, n.Experience, 1)
	assert.Len(t, n.Skills, 1)
	assert.Nil(t, d.Education, "receiver must not be modified")
}

func TestResumeData_NormalizeKeepsOrder(t *testing.T) {
	d := ResumeData{
		Education: []EducationEntry{{School: "A"}, {School: "B"}},
		Skills:    []string{"go", "sql"},
	}

	n := d.Normalize()

	require.Len(t, n.Education, 2)
	assert.Equal(t, "A", n.Education[0].School)
	assert.Equal(t, "B", n.Education[1].School)
	assert.Equal(t, []string{"go", "sql"}, n.Skills)
}

func TestResumeData_CloneDoesNotShareSlices(t *testing.T) {
	d := NewResumeData()
	c := d.Clone()

	c.Education[0].School = "MIT"
	c.Skills[0] = "Go"

	assert.Empty(t, d.Education[0].School)
	assert.Empty(t, d.Skills[0])
}

func TestResumeData_JSONFieldNames(t *testing.T) {
	d := NewResumeData()
	d.Social.GitHub = "gh/user"

	raw, err := json.Marshal(d)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	for _, key := range []string{"name", "email", "phone", "education", "experience", "skills", "social"} {
		assert.Contains(t, m, key)
	}
	social := m["social"].(map[string]any)
	assert.Equal(t, "gh/user", social["github"])
}

func TestParseTemplate(t *testing.T) {
	tests := []struct {
		in      string
		want    TemplateName
		wantErr bool
	}{
		{"modern", TemplateModern, false},
		{"classic", TemplateClassic, false},
		{" Elegant ", TemplateElegant, false},
		{"fancy", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTemplate(tt.in)
			if tt.wantErr {
				var unknown *UnknownValueError
				require.ErrorAs(t, err, &unknown)
				assert.Equal(t, "template", unknown.Kind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTheme(t *testing.T) {
	tests := []struct {
		in      string
		want    ThemeName
		wantErr bool
	}{
		{"blue", ThemeBlue, false},
		{"theme-green", ThemeGreen, false},
		{"PINK", ThemePink, false},
		{"light", ThemeLight, false},
		{"theme-dark", "", true},
		{"red", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTheme(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "unknown theme")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestThemeName_Class(t *testing.T) {
	assert.Equal(t, "theme-pink", ThemePink.Class())
}

func TestNewPresentation_Defaults(t *testing.T) {
	p := NewPresentation()

	assert.Equal(t, TemplateModern, p.Template)
	assert.Equal(t, ThemeBlue, p.Theme)
	assert.False(t, p.Photo.Present())
}

func TestTemplateRequest_Validate(t *testing.T) {
	ok := &TemplateRequest{Value: "classic"}
	assert.NoError(t, ok.Validate())

	bad := &TemplateRequest{Value: "poster"}
	assert.Error(t, bad.Validate())
}

func TestThemeRequest_Validate(t *testing.T) {
	assert.NoError(t, (&ThemeRequest{Value: "theme-light"}).Validate())
	assert.Error(t, (&ThemeRequest{}).Validate())
}
