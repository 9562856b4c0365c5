package domain

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestDeriveChatType(t *testing.T) {
	tests := []struct {
		name    string
		members []int64
		chat    *string
		public  bool
		want    ChatType
	}{
		{"nameless pair is single", []int64{1, 2}, nil, false, ChatTypeSingle},
		{"nameless crowd is group", []int64{1, 2, 3}, nil, false, ChatTypeGroup},
		{"named public is public channel", []int64{1, 2, 3}, lo.ToPtr("general"), true, ChatTypePublicChannel},
		{"named private is private channel", []int64{1, 2}, lo.ToPtr("secrets"), false, ChatTypePrivateChannel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, DeriveChatType(tt.members, tt.chat, tt.public))
		})
	}
}
