package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStaticKeywords_Order(t *testing.T) {
	e := StaticKeywords{}.Entries()
	assert.Equal(t, 5, len(e))
	assert.Equal(t, FamilyLaw, e[0].Category)
	assert.Equal(t, Criminal, e[1].Category)
	assert.Equal(t, Property, e[2].Category)
	assert.Equal(t, Corporate, e[3].Category)
	assert.Equal(t, Civil, e[4].Category)
}

func TestParseKeywords(t *testing.T) {
	data := `
- category: CRIMINAL
  keywords: [theft, arrest]
- category: CIVIL
  keywords: [dispute]
`
	e, err := parseKeywords([]byte(data))
	assert.Nil(t, err)
	assert.Equal(t, 2, len(e))
	assert.Equal(t, Criminal, e[0].Category)
	assert.Equal(t, []string{"theft", "arrest"}, e[0].Keywords)
	assert.Equal(t, Civil, e[1].Category)
}

func TestParseKeywords_KeepsFileOrder(t *testing.T) {
	data := `
- category: CIVIL
  keywords: [contract]
- category: CORPORATE
  keywords: [contract]
`
	e, err := parseKeywords([]byte(data))
	assert.Nil(t, err)
	assert.Equal(t, Civil, e[0].Category)
	assert.Equal(t, Corporate, e[1].Category)
}

func TestParseKeywords_FailEmpty(t *testing.T) {
	_, err := parseKeywords([]byte(""))
	assert.NotNil(t, err)
}

func TestParseKeywords_FailUnknownCategory(t *testing.T) {
	data := `
- category: TAX
  keywords: [vat]
`
	_, err := parseKeywords([]byte(data))
	assert.NotNil(t, err)
}

func TestParseKeywords_FailBadYaml(t *testing.T) {
	_, err := parseKeywords([]byte("::bad"))
	assert.NotNil(t, err)
}

func TestNewFileKeywords_FailNoPath(t *testing.T) {
	_, err := NewFileKeywords("")
	assert.NotNil(t, err)
}

func TestNewFileKeywords_FailNoFile(t *testing.T) {
	_, err := NewFileKeywords("/does/not/exist")
	assert.NotNil(t, err)
}
