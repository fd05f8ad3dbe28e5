package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin []byte, args ...string) ([]byte, error) {
	t.Helper()
	flags := rootCmd.PersistentFlags()
	require.NoError(t, flags.Set("abort", "false"))
	require.NoError(t, flags.Set("buffer-size", "1"))
	require.NoError(t, flags.Set("workers", "4"))
	var out bytes.Buffer
	rootCmd.SetIn(bytes.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.Bytes(), err
}

func TestEncodeStdinToStdout(t *testing.T) {
	out, err := execute(t, []byte("t"), "encode", "-b", "1")
	require.NoError(t, err)
	require.Equal(t, []byte{0x55, 0x0f}, out)
}

func TestEncodeDecodeFiles(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "plain")
	encoded := filepath.Join(dir, "encoded")
	decoded := filepath.Join(dir, "decoded")
	payload := []byte("sixteen byte msg")
	require.NoError(t, os.WriteFile(plain, payload, 0o644))

	_, err := execute(t, nil, "encode", "-b", "4", plain, encoded)
	require.NoError(t, err)
	info, err := os.Stat(encoded)
	require.NoError(t, err)
	// 4 blocks of 32 data + 6 parity + 1 global bits
	require.Equal(t, int64(4*5), info.Size())

	_, err = execute(t, nil, "flip", encoded, "3", "45")
	require.NoError(t, err)

	_, err = execute(t, nil, "decode", "-b", "4", encoded, decoded)
	require.NoError(t, err)
	got, err := os.ReadFile(decoded)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestDecodeSingleError(t *testing.T) {
	out, err := execute(t, []byte{0x55, 0x07}, "decode", "-b", "1")
	require.NoError(t, err)
	require.Equal(t, []byte("t"), out)
}

func TestDecodeDoubleErrorExitStatus(t *testing.T) {
	out, err := execute(t, []byte{0x45, 0x07}, "decode", "-b", "1")
	require.Error(t, err)
	require.Equal(t, []byte("4"), out)

	var stderr bytes.Buffer
	require.Equal(t, 2, exitCode(err, &stderr))
	require.Contains(t, stderr.String(), "double errors")
}

func TestDecodeAbort(t *testing.T) {
	_, err := execute(t, []byte{0x55, 0x0f, 0x45, 0x07, 0x55, 0x0f}, "decode", "-b", "1", "--workers", "1", "--abort")
	require.Error(t, err)
	require.Equal(t, 2, exitCode(err, &bytes.Buffer{}))
}

func TestExitCodeForFailures(t *testing.T) {
	_, err := execute(t, []byte{0x55}, "decode", "-b", "1")
	require.Error(t, err)
	require.Equal(t, 1, exitCode(err, &bytes.Buffer{}))
	require.Equal(t, 0, exitCode(nil, &bytes.Buffer{}))
}

func TestInvalidBufferSize(t *testing.T) {
	_, err := execute(t, []byte("t"), "encode", "-b", "0")
	require.Error(t, err)
}

func TestFlipReportsBits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	require.NoError(t, os.WriteFile(path, []byte{0x00, 0x00}, 0o644))

	out, err := execute(t, nil, "flip", path, "9")
	require.NoError(t, err)
	require.Contains(t, string(out), "Flipped bit 9 in")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, []byte{0x00, 0x02}, data)

	_, err = execute(t, nil, "flip", path, "x")
	require.Error(t, err)
}

func TestInfoTable(t *testing.T) {
	out, err := execute(t, nil, "info", "-b", "31")
	require.NoError(t, err)
	require.Contains(t, string(out), "too few")
	require.Contains(t, string(out), "258")

	out, err = execute(t, nil, "info", "-b", "1", "--positions")
	require.NoError(t, err)
	require.Contains(t, string(out), "global")
	require.Contains(t, string(out), "C1 C2 C8")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, nil, "version")
	require.NoError(t, err)
	require.Contains(t, string(out), "Version:")
	require.Contains(t, string(out), "Go Version:")
}
