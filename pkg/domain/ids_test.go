package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "tasquest/pkg/domain-errors"
)

// TestParseUUID_Invariants validates the parsing invariant:
// ids must be valid, non-empty, non-nil UUIDs.
func TestParseUUID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseAccountID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseAccountID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseAccountID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		validUUID := uuid.New()
		id, err := ParseAccountID(validUUID.String())
		require.NoError(t, err)
		assert.Equal(t, AccountID(validUUID), id)
	})
}

// TestTypeDistinction documents that goal and task ids are distinct types.
// var _ GoalID = TaskID(...) does not compile.
func TestTypeDistinction(t *testing.T) {
	goalID := NewGoalID()
	taskID := NewTaskID()
	assert.NotEqual(t, uuid.UUID(goalID), uuid.UUID(taskID))
}

func TestParseID_TrustBoundary(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"SQL injection attempt", "'; DROP TABLE accounts;--", true},
		{"Path traversal", "../../../etc/passwd", true},
		{"Null byte injection", "550e8400\x00-e29b-41d4-a716-446655440000", true},
		{"Oversized input", strings.Repeat("a", 1000), true},
		{"Empty string", "", true},
		{"Nil UUID", uuid.Nil.String(), true},
		{"Whitespace only", "   ", true},
		{"Uppercase valid UUID", "550E8400-E29B-41D4-A716-446655440000", false},
		{"Valid UUID lowercase", "550e8400-e29b-41d4-a716-446655440000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseGoalID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestAllIDTypes_ConsistentBehavior(t *testing.T) {
	validUUID := uuid.New().String()
	invalidInputs := []string{"", "invalid", uuid.Nil.String()}

	t.Run("all accept valid UUID", func(t *testing.T) {
		_, errAccount := ParseAccountID(validUUID)
		_, errSession := ParseSessionID(validUUID)
		_, errStatus := ParseStatusID(validUUID)
		_, errGoal := ParseGoalID(validUUID)
		_, errTask := ParseTaskID(validUUID)
		_, errTag := ParseTagID(validUUID)

		require.NoError(t, errAccount)
		require.NoError(t, errSession)
		require.NoError(t, errStatus)
		require.NoError(t, errGoal)
		require.NoError(t, errTask)
		require.NoError(t, errTag)
	})

	for _, input := range invalidInputs {
		t.Run("all reject: "+input, func(t *testing.T) {
			_, errAccount := ParseAccountID(input)
			_, errSession := ParseSessionID(input)
			_, errStatus := ParseStatusID(input)
			_, errGoal := ParseGoalID(input)
			_, errTask := ParseTaskID(input)
			_, errTag := ParseTagID(input)

			require.Error(t, errAccount)
			require.Error(t, errSession)
			require.Error(t, errStatus)
			require.Error(t, errGoal)
			require.Error(t, errTask)
			require.Error(t, errTag)
		})
	}
}

func TestIDs_JSONText(t *testing.T) {
	goalID := NewGoalID()
	raw, err := json.Marshal(map[string]GoalID{"goal": goalID})
	require.NoError(t, err)
	assert.Contains(t, string(raw), goalID.String())

	var decoded map[string]GoalID
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, goalID, decoded["goal"])
}
