package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name    string
		raw     string
		want    Decision
		wantErr bool
	}{
		{
			name: "plain JSON",
			raw:  `{"action": "up", "reasoning": "explore north", "confidence": 0.8}`,
			want: Decision{Action: "up", Reasoning: "explore north", Confidence: 0.8},
		},
		{
			name: "fenced JSON",
			raw:  "```json\n{\"action\": \"a\", \"screen_text\": \"It's dangerous to go alone!\"}\n```",
			want: Decision{Action: "a", ScreenText: "It's dangerous to go alone!"},
		},
		{
			name: "bare fence and whitespace",
			raw:  "  ```\n{\"action\": \"B\"}\n```  ",
			want: Decision{Action: "b"},
		},
		{
			name:    "missing action",
			raw:     `{"reasoning": "hmm"}`,
			wantErr: true,
		},
		{
			name:    "not JSON",
			raw:     "go right and attack the octorok",
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := Parse(tc.raw)
			if tc.wantErr {
				require.Error(t, err)
				var malformed *MalformedError
				assert.ErrorAs(t, err, &malformed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, d)
		})
	}
}
