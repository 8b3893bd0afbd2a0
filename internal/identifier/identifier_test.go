package identifier

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func strPtr(s string) *string {
	return &s
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name    string
		foreign Foreign
		want    string
	}{
		{"tag and id", Foreign{Tag: strPtr("abc"), ID: 42}, "expo-notifications://foreign_notifications?tag=abc&id=42"},
		{"id only", Foreign{ID: 7}, "expo-notifications://foreign_notifications?id=7"},
		{"zero id", Foreign{ID: 0}, "expo-notifications://foreign_notifications?id=0"},
		{"negative id", Foreign{ID: -3}, "expo-notifications://foreign_notifications?id=-3"},
		{"empty tag is still a tag", Foreign{Tag: strPtr(""), ID: 1}, "expo-notifications://foreign_notifications?tag=&id=1"},
		{"tag with spaces", Foreign{Tag: strPtr("my tag"), ID: 5}, "expo-notifications://foreign_notifications?tag=my+tag&id=5"},
		{"tag with reserved characters", Foreign{Tag: strPtr("a&b=c"), ID: 9}, "expo-notifications://foreign_notifications?tag=a%26b%3Dc&id=9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Encode(tt.foreign))
		})
	}
}

func TestDecode(t *testing.T) {
	logger := testLogger()

	t.Run("tag and id", func(t *testing.T) {
		got := Decode("expo-notifications://foreign_notifications?tag=abc&id=42", logger)
		require.NotNil(t, got)
		require.NotNil(t, got.Tag)
		assert.Equal(t, "abc", *got.Tag)
		assert.Equal(t, int32(42), got.ID)
	})

	t.Run("id only", func(t *testing.T) {
		got := Decode("expo-notifications://foreign_notifications?id=7", logger)
		require.NotNil(t, got)
		assert.Nil(t, got.Tag)
		assert.Equal(t, int32(7), got.ID)
	})

	t.Run("rejections return nil", func(t *testing.T) {
		tests := []struct {
			name       string
			identifier string
		}{
			{"not a URI", "://nope"},
			{"empty string", ""},
			{"plain identifier", "my-app-notification"},
			{"wrong scheme", "other-scheme://foreign_notifications?id=1"},
			{"wrong authority", "expo-notifications://something_else?id=1"},
			{"missing id", "expo-notifications://foreign_notifications?tag=abc"},
			{"non-numeric id", "expo-notifications://foreign_notifications?id=abc"},
			{"fractional id", "expo-notifications://foreign_notifications?id=1.5"},
			{"id overflows int32", "expo-notifications://foreign_notifications?id=99999999999"},
			{"empty id", "expo-notifications://foreign_notifications?id="},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				assert.Nil(t, Decode(tt.identifier, logger))
			})
		}
	})

	t.Run("nil logger is allowed", func(t *testing.T) {
		assert.Nil(t, Decode("not ours", nil))
	})
}

func TestRoundTrip(t *testing.T) {
	logger := testLogger()

	tags := []*string{
		nil,
		strPtr("simple"),
		strPtr("with space"),
		strPtr("we/ird?chars&here=yes"),
		strPtr("ünïcode"),
	}
	ids := []int32{0, 1, 42, 2147483647}

	for _, tag := range tags {
		for _, id := range ids {
			original := Foreign{Tag: tag, ID: id}
			decoded := Decode(Encode(original), logger)

			require.NotNil(t, decoded)
			assert.Equal(t, original.ID, decoded.ID)
			if tag == nil {
				assert.Nil(t, decoded.Tag)
			} else {
				require.NotNil(t, decoded.Tag)
				assert.Equal(t, *tag, *decoded.Tag)
			}
		}
	}
}
