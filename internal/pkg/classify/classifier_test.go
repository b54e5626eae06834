package classify

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type testCompleter struct {
	res   string
	err   error
	calls int
}

func (c *testCompleter) Complete(system string, user string, temperature float64, maxTokens int) (string, error) {
	c.calls++
	return c.res, c.err
}

func newTestClassifier(res string, err error) (*Classifier, *testCompleter) {
	c := &testCompleter{res: res, err: err}
	cl, _ := NewClassifier(c, StaticKeywords{})
	return cl, c
}

func TestNewClassifier(t *testing.T) {
	cl, err := NewClassifier(&testCompleter{}, StaticKeywords{})
	assert.Nil(t, err)
	assert.NotNil(t, cl)
}

func TestNewClassifier_Fail(t *testing.T) {
	_, err := NewClassifier(nil, StaticKeywords{})
	assert.NotNil(t, err)
	_, err = NewClassifier(&testCompleter{}, nil)
	assert.NotNil(t, err)
}

func TestClassify_AI(t *testing.T) {
	cl, _ := newTestClassifier("CRIMINAL", nil)
	assert.Equal(t, Criminal, cl.Classify("someone stole my wallet"))
}

func TestClassify_AINormalizes(t *testing.T) {
	cl, _ := newTestClassifier("  family law \n", nil)
	assert.Equal(t, FamilyLaw, cl.Classify("divorce papers"))
}

func TestClassify_AIOtherFallsBack(t *testing.T) {
	cl, _ := newTestClassifier("OTHER", nil)
	assert.Equal(t, Property, cl.Classify("my landlord will not return the deposit"))
}

func TestClassify_AIErrorFallsBack(t *testing.T) {
	cl, _ := newTestClassifier("", errors.New("down"))
	assert.Equal(t, Criminal, cl.Classify("the police made an arrest"))
}

func TestClassify_AIUnknownFallsBack(t *testing.T) {
	cl, _ := newTestClassifier("I think this is about tax law", nil)
	assert.Equal(t, Corporate, cl.Classify("a contract with my business partner"))
}

func TestClassify_NoMatch(t *testing.T) {
	cl, _ := newTestClassifier("", errors.New("down"))
	assert.Equal(t, Other, cl.Classify("nothing legal about this"))
}

func TestClassify_Blank(t *testing.T) {
	cl, c := newTestClassifier("CIVIL", nil)
	assert.Equal(t, Other, cl.Classify("  "))
	assert.Equal(t, 0, c.calls)
}

func TestClassify_KeywordOrderDeterministic(t *testing.T) {
	// "contract" appears under both CORPORATE and CIVIL, list order decides
	cl, _ := newTestClassifier("", errors.New("down"))
	for i := 0; i < 10; i++ {
		assert.Equal(t, Corporate, cl.Classify("a contract issue"))
	}
}

func TestClassify_KeywordCaseInsensitive(t *testing.T) {
	cl, _ := newTestClassifier("", errors.New("down"))
	assert.Equal(t, FamilyLaw, cl.Classify("DIVORCE proceedings"))
}
