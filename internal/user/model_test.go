package user

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_PasswordNeverSerialized(t *testing.T) {
	u := &User{
		ID:       "u1",
		Username: "alice",
		Email:    "a@x.com",
		Password: "$2a$10$supersecrethash",
	}

	data, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "supersecrethash")
	assert.NotContains(t, string(data), "password")
}

func TestPublicUser_Projection(t *testing.T) {
	u := &User{
		ID:       "u1",
		Username: "alice",
		Email:    "a@x.com",
		Password: "$2a$10$supersecrethash",
	}

	pub := u.Public()

	data, err := json.Marshal(pub)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))

	assert.Equal(t, "u1", out["id"])
	assert.Equal(t, "alice", out["name"])
	assert.Equal(t, "a@x.com", out["email"])
	assert.Len(t, out, 3) // nothing else crosses the boundary
}
