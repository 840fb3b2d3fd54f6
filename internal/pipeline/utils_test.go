package pipeline

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanHTMLTags(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"tags and entities", "<p>Tom &amp; Jerry&#39;s <b>clinic</b></p>", "Tom & Jerry's clinic"},
		{"escaped markup", "&lt;p&gt;escaped &lt;i&gt;markup&lt;/i&gt;&lt;/p&gt;", "escaped markup"},
		{"quote entities", "a &lt; b &quot;q&quot;", `a < b "q"`},
		{"comparison kept as text", "Fees 1 &lt; 2 &gt; 0 for staff", "Fees 1 < 2 > 0 for staff"},
		{"escaped markup around comparison", "&lt;b&gt;BMI &amp;lt; 25&lt;/b&gt; &gt; target", "BMI < 25 > target"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanHTMLTags(tt.in))
		})
	}
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "健康检", truncateRunes("健康检查", 3))
	assert.Equal(t, "short", truncateRunes("short", 10))
}

func TestHTMLToText(t *testing.T) {
	got := htmlToText(`<div><script>var x=1</script><h1>Wellness</h1>
<p>Free   <em>blood test</em></p><style>p{}</style></div>`)
	assert.Equal(t, "Wellness Free blood test", got)
}

func TestUniqStrings(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, uniqStrings([]string{" a", "", "b", "a "}))
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, SearchResponse{Items: []Opportunity{{ID: "opp_1", URL: "https://x.my/?a=1&b=2"}}}))
	assert.Contains(t, buf.String(), `"url": "https://x.my/?a=1&b=2"`)
	assert.Contains(t, buf.String(), `"items": [`)
}
