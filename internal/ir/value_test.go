package ir

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValueSealed(t *testing.T) {
	var _ Value = Node{}
	var _ Value = Keyword{}
	var _ Value = String("")
	var _ Value = Int(0)
	var _ Value = Float(0)
	var _ Value = Bool(false)
	var _ Value = Time(0)
	var _ Value = Nil{}
}

func TestKeywordNamespaceAndName(t *testing.T) {
	k := NewKeyword("artist/name")
	assert.Equal(t, "artist", k.Namespace())
	assert.Equal(t, "name", k.Name())
	assert.Equal(t, "artist/name", k.String())
}

func TestKeywordBareNoNamespace(t *testing.T) {
	k := NewKeyword("id")
	assert.Equal(t, "", k.Namespace())
	assert.Equal(t, "id", k.Name())
}

func TestTimeRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)
	tv := NewTime(now)
	assert.True(t, now.Equal(tv.Time()))
}

func TestTimeComparable(t *testing.T) {
	a := NewTime(time.Unix(100, 0))
	b := NewTime(time.Unix(100, 0))
	assert.Equal(t, a, b)
}

func TestTripleString(t *testing.T) {
	s := NewNode()
	p := NewKeyword("artist/name")
	o := String("Coltrane")
	tr := Triple{S: s, P: p, O: o}
	assert.Contains(t, tr.String(), s.String())
	assert.Contains(t, tr.String(), "artist/name")
	assert.Contains(t, tr.String(), `"Coltrane"`)
}
