package datasource

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"retailclean/internal/datasource/file"
	"retailclean/internal/datasource/httpds"
)

func TestForLocation(t *testing.T) {
	src := ForLocation("data/retail_customers.csv", nil)
	local, ok := src.(*file.Local)
	assert.True(t, ok, "got %T", src)
	assert.Equal(t, "data/retail_customers.csv", local.Path())

	src = ForLocation("HTTPS://example.com/customers.csv", nil)
	remote, ok := src.(*httpds.Source)
	assert.True(t, ok, "got %T", src)
	assert.Equal(t, "HTTPS://example.com/customers.csv", remote.URL())

	assert.True(t, IsRemote("http://x"))
	assert.False(t, IsRemote("./http/file.csv"))
}
