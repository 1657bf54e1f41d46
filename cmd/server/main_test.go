package main

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/todmy/hamster-court/internal/dispute"
)

func executeCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("QWEN_API_KEY", "")
	t.Setenv("HAMSTER_API_KEY", "")
	t.Setenv("HAMSTER_LOG_LEVEL", "error")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestVerdictCommand(t *testing.T) {
	out, err := executeCLI(t, "verdict", "--a", "你总是不回消息", "--b", "我在开会", "--label-a", "小红", "--mode", "ai", "--plain")
	require.NoError(t, err)

	assert.Contains(t, out, "⚠️  AI 不可用，已使用模拟裁决")
	assert.Contains(t, out, "仓鼠大法官 🐹")
	assert.Contains(t, out, "【小红观点】")
	assert.Contains(t, out, "模拟裁决（AI 不可用，已降级）")
	assert.Contains(t, out, "裁决印章：")
}

func TestVerdictCommand_Errors(t *testing.T) {
	_, err := executeCLI(t, "verdict", "--a", "  ", "--b", "b", "--mode", "simulated")
	assert.ErrorIs(t, err, dispute.ErrEmptyStatement)

	_, err = executeCLI(t, "verdict", "--a", "a", "--b", "b", "--mode", "coin")
	assert.Error(t, err)
}

func TestPrintMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printMarkdown(&buf, "**一、案情概述**\n\n本案", true))
	assert.Equal(t, "**一、案情概述**\n\n本案", buf.String())

	buf.Reset()
	require.NoError(t, printMarkdown(&buf, "**一、案情概述**\n\n本案", false))
	assert.Contains(t, buf.String(), "案情概述")
}
