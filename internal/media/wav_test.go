package media

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeWAV(t *testing.T, sampleRate int, channels int, samples []int16) string {
	t.Helper()

	dataSize := len(samples) * 2
	buf := make([]byte, 0, 44+dataSize)

	buf = append(buf, []byte("RIFF")...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(36+dataSize))
	buf = append(buf, []byte("WAVE")...)

	buf = append(buf, []byte("fmt ")...)
	buf = binary.LittleEndian.AppendUint32(buf, 16)
	buf = binary.LittleEndian.AppendUint16(buf, 1)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(channels))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(sampleRate))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(sampleRate*channels*2))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(channels*2))
	buf = binary.LittleEndian.AppendUint16(buf, 16)

	buf = append(buf, []byte("data")...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(dataSize))
	for _, sample := range samples {
		buf = binary.LittleEndian.AppendUint16(buf, uint16(sample))
	}

	path := filepath.Join(t.TempDir(), "probe.wav")
	require.NoError(t, os.WriteFile(path, buf, 0o644))
	return path
}

func TestProbeWAVReportsFormatAndDuration(t *testing.T) {
	t.Parallel()

	samples := make([]int16, 16000)
	path := writeWAV(t, 16000, 1, samples)

	info, err := ProbeWAV(path)
	require.NoError(t, err)
	require.Equal(t, 16000, info.SampleRate)
	require.Equal(t, 1, info.Channels)
	require.Equal(t, time.Second, info.Duration)
	require.Equal(t, int64(16000), info.Samples)
}

func TestProbeWAVSilenceDetection(t *testing.T) {
	t.Parallel()

	silent := make([]int16, 1600)
	info, err := ProbeWAV(writeWAV(t, 16000, 1, silent))
	require.NoError(t, err)
	require.True(t, math.IsInf(info.RMSdBFS, -1))
	require.True(t, info.Silent(-65))

	loud := make([]int16, 1600)
	for i := range loud {
		if i%2 == 0 {
			loud[i] = 16000
		} else {
			loud[i] = -16000
		}
	}
	info, err = ProbeWAV(writeWAV(t, 16000, 1, loud))
	require.NoError(t, err)
	require.False(t, info.Silent(-65))
	require.Greater(t, info.RMSdBFS, -10.0)
}

func TestProbeWAVRejectsGarbage(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "not.wav")
	require.NoError(t, os.WriteFile(path, []byte("definitely not audio"), 0o644))

	_, err := ProbeWAV(path)
	require.ErrorIs(t, err, ErrInvalidWAV)
}

func TestCodecArgsPerExtension(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"-c:a", "libmp3lame", "-b:a", "128k"}, codecArgs("out.mp3", "128k"))
	require.Equal(t, []string{"-c:a", "pcm_s16le"}, codecArgs("out.wav", ""))
	require.Equal(t, []string{"-c:a", "aac", "-b:a", "192k"}, codecArgs("out.m4a", ""))
}

func TestWriteConcatListEscapesQuotes(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "it's a chapter.mp3")
	require.NoError(t, os.WriteFile(input, []byte("x"), 0o644))

	listFile, err := writeConcatList([]string{input}, dir)
	require.NoError(t, err)
	defer os.Remove(listFile)

	content, err := os.ReadFile(listFile)
	require.NoError(t, err)
	require.Contains(t, string(content), `it'\''s a chapter.mp3`)
}
