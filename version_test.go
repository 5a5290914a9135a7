package escrowswap_test

import (
	"testing"

	"github.com/iov-one/escrowswap"
	"github.com/stretchr/testify/assert"
)

func TestVersion(t *testing.T) {
	escrowswap.GitCommit = ""
	assert.Equal(t, "v0.1.0-dev", escrowswap.Version())

	escrowswap.GitCommit = "12345678"
	assert.Equal(t, "v0.1.0-dev 12345678", escrowswap.Version())
	escrowswap.GitCommit = ""
}
