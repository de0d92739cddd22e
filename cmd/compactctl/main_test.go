package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testAddress = "0xdac17f958d2ee523a2206206994597c13d831ec7"
	testR       = "0x1fd474b1f9404c0c5df43b7620119ffbc3a1c3f942c73b6e14e9f55255ed9b1d"
	testS       = "0x29aca24813279a901ec13b5f7bb53385fa1fc627b946592221417ff74a49600d"
)

func runOK(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, run(args, &out, zap.NewNop()))
	return out.String()
}

func TestEncodeDecodeSigned(t *testing.T) {
	out := runOK(t, "encode", "--chain-id", "1", "--address", testAddress, "--nonce", "1", "--r", testR, "--s", testS)
	fields := strings.Fields(out)
	require.Len(t, fields, 2)
	assert.Equal(t, "94", fields[1])
	assert.True(t, strings.HasPrefix(fields[0], "001d9bed"), fields[0])

	decoded := runOK(t, "decode", "--len", fields[1], fields[0])
	assert.Contains(t, decoded, "y_parity: 0\n")
	assert.Contains(t, decoded, "r: "+testR+"\n")
	assert.Contains(t, decoded, "s: "+testS+"\n")
	assert.Contains(t, decoded, "chain_id: 1\n")
	assert.Contains(t, decoded, "address: "+testAddress+"\n")
	assert.Contains(t, decoded, "nonce: 1\n")
	assert.Contains(t, decoded, "rest: 0\n")
}

func TestEncodeDecodeUnsigned(t *testing.T) {
	out := runOK(t, "encode", "--unsigned", "--chain-id", "0", "--address", testAddress, "--nonce", "7")
	fields := strings.Fields(out)
	require.Len(t, fields, 2)
	assert.Equal(t, "28", fields[1])

	decoded := runOK(t, "decode", "--unsigned", fields[0])
	assert.Contains(t, decoded, "chain_id: 0\n")
	assert.Contains(t, decoded, "nonce: 7\n")
}

func TestHash(t *testing.T) {
	out := runOK(t, "hash", "--chain-id", "1", "--address", testAddress, "--nonce", "1")
	assert.Equal(t, "0x7d4f257018ea4cfbc9a8052264185670379bf88fc8e9e1f1a8ff3133c71087c4\n", out)
}

func TestErrors(t *testing.T) {
	var out bytes.Buffer
	nop := zap.NewNop()

	assert.ErrorIs(t, run(nil, &out, nop), errUsage)
	assert.ErrorIs(t, run([]string{"frobnicate"}, &out, nop), errUsage)
	assert.ErrorIs(t, run([]string{"encode", "--address", "0x12"}, &out, nop), errUsage)
	assert.ErrorIs(t, run([]string{"decode"}, &out, nop), errUsage)

	t.Run("InvalidSignatureIsDataError", func(t *testing.T) {
		err := run([]string{"encode", "--address", testAddress, "--parity", "2", "--r", testR, "--s", testS}, &out, nop)
		require.Error(t, err)
		assert.NotErrorIs(t, err, errUsage)
	})

	t.Run("TruncatedInput", func(t *testing.T) {
		err := run([]string{"decode", "--len", "94", "00"}, &out, nop)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "truncated")
	})
}
