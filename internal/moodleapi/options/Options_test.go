package options

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefault(t *testing.T) {
	Assert := assert.New(t)

	o := Default()
	Assert.False(o.AcceptUntrustedCert)
	Assert.Equal(FormatJSON, o.RestFormat)
	Assert.Equal(5000*time.Millisecond, o.Timeout)
	Assert.False(o.HasTimeout)
}

func TestTimeoutNormalization(t *testing.T) {
	Assert := assert.New(t)

	o := Default()
	err := o.Apply(TimeoutString("2m"))
	Assert.NoError(err)
	Assert.Equal(120000*time.Millisecond, o.Timeout)
	Assert.True(o.HasTimeout)

	// дробная часть миллисекунды усекается
	o = Default()
	err = o.Apply(Timeout(1500*time.Millisecond + 500*time.Microsecond))
	Assert.NoError(err)
	Assert.Equal(1500*time.Millisecond, o.Timeout)

	o = Default()
	err = o.Apply(TimeoutMs(250))
	Assert.NoError(err)
	Assert.Equal(250*time.Millisecond, o.Timeout)
}

func TestTimeoutInvalid(t *testing.T) {
	Assert := assert.New(t)

	cases := []Option{
		Timeout(0),
		Timeout(-time.Second),
		Timeout(500 * time.Microsecond),
		TimeoutMs(0),
		TimeoutMs(-10),
		TimeoutString("soon"),
		TimeoutString("0s"),
	}

	for i, opt := range cases {
		t.Logf("Test case: %d", i)
		o := Default()
		Assert.Error(o.Apply(opt))
	}
}

func TestRestFormat(t *testing.T) {
	Assert := assert.New(t)

	o := Default()
	Assert.NoError(o.Apply(RestFormat(FormatXML)))
	Assert.Equal(FormatXML, o.RestFormat)

	o = Default()
	Assert.Error(o.Apply(RestFormat("yaml")))
}
