package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestDocListsRoutes(t *testing.T) {
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var parsed struct {
		Paths map[string]map[string]struct {
			Responses map[string]json.RawMessage `json:"responses"`
		} `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))

	for path, method := range map[string]string{
		"/health":                  "get",
		"/auth/register":           "post",
		"/auth/login":              "post",
		"/auth/forgot-password":    "post",
		"/auth/verify-reset-token": "post",
		"/auth/reset-password":     "post",
		"/user/majors":             "get",
		"/user/data":               "get",
		"/user/update":             "put",
		"/user/major":              "put",
		"/user/picture":            "post",
		"/skills/list":             "get",
		"/skills/add-user":         "post",
		"/skills/mine":             "get",
		"/skills/user/{skillID}":   "delete",
		"/results/match-result":    "post",
		"/results/history":         "get",
	} {
		require.Contains(t, parsed.Paths, path)
		assert.Contains(t, parsed.Paths[path], method, path)
	}

	assert.Contains(t, parsed.Paths["/auth/verify-reset-token"]["post"].Responses, "429")
	assert.Contains(t, parsed.Paths["/auth/reset-password"]["post"].Responses, "429")
}
