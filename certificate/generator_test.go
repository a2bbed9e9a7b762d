package certificate

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCertificateData() CertificateData {
	return CertificateData{
		UserName:         "Aline Uwase",
		ResourceTitle:    "Intro to Excel",
		ResourceCategory: "technical",
		CompletedAt:      time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
		CertificateID:    "a1b2c3d4e5f6a7b8a1b2c3d4e5f6a7b8",
		Skills:           []string{"Excel", "Data Entry"},
		Duration:         90,
	}
}

func TestGenerateProducesPDF(t *testing.T) {
	gen := NewGenerator()

	data, err := gen.Generate(testCertificateData())
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "output should be a PDF document")
}

func TestGenerateIsDeterministic(t *testing.T) {
	gen := NewGenerator()
	input := testCertificateData()

	first, err := gen.Generate(input)
	require.NoError(t, err)

	// PDF date metadata has second granularity; cross a second boundary so
	// any render-time timestamp would show up as a byte difference
	now := time.Now()
	time.Sleep(time.Until(now.Truncate(time.Second).Add(time.Second + 50*time.Millisecond)))

	second, err := gen.Generate(input)
	require.NoError(t, err)

	assert.True(t, bytes.Equal(first, second), "same input must render the same document")
}

func TestGenerateRequiresUserName(t *testing.T) {
	gen := NewGenerator()
	input := testCertificateData()
	input.UserName = "  "

	_, err := gen.Generate(input)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRender)
}

func TestGenerateRequiresResourceTitle(t *testing.T) {
	gen := NewGenerator()
	input := testCertificateData()
	input.ResourceTitle = ""

	_, err := gen.Generate(input)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRender)
}

func TestGenerateOptionalFields(t *testing.T) {
	gen := NewGenerator()
	input := testCertificateData()
	input.Skills = nil
	input.Duration = 0
	input.ResourceCategory = ""

	data, err := gen.Generate(input)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}
