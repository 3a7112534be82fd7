package media

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"
)

var (
	ErrInvalidWAV     = errors.New("invalid wav file")
	ErrUnsupportedWAV = errors.New("unsupported wav format")
)

// WAVInfo summarizes a PCM16 wav capture. Level metrics are in dBFS.
type WAVInfo struct {
	SampleRate int
	Channels   int
	Duration   time.Duration
	Samples    int64
	RMSdBFS    float64
	PeakdBFS   float64
}

// Silent reports whether the capture carries no usable signal at the given
// RMS threshold. The peak gets 6 dB of headroom so a single click does not
// defeat the gate.
func (i WAVInfo) Silent(thresholdDBFS float64) bool {
	if i.Samples == 0 {
		return true
	}
	return i.RMSdBFS <= thresholdDBFS && i.PeakdBFS <= thresholdDBFS+6
}

// ProbeWAV parses a RIFF/WAVE file with 16-bit PCM samples, the only
// format our capture backends produce.
func ProbeWAV(path string) (WAVInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return WAVInfo{}, fmt.Errorf("open wav: %w", err)
	}
	defer f.Close()

	header := make([]byte, 12)
	if _, err := io.ReadFull(f, header); err != nil {
		return WAVInfo{}, fmt.Errorf("%w: %v", ErrInvalidWAV, err)
	}
	if string(header[:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return WAVInfo{}, ErrInvalidWAV
	}

	var (
		sampleRate    uint32
		channels      uint16
		bitsPerSample uint16
		data          []byte
		hasFmt        bool
	)

	for {
		chunkHeader := make([]byte, 8)
		if _, err := io.ReadFull(f, chunkHeader); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return WAVInfo{}, fmt.Errorf("read wav chunk header: %w", err)
		}

		chunkID := string(chunkHeader[:4])
		chunkSize := binary.LittleEndian.Uint32(chunkHeader[4:8])
		skip := int64(chunkSize)
		if chunkSize%2 != 0 {
			skip++
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return WAVInfo{}, ErrInvalidWAV
			}
			buf := make([]byte, chunkSize)
			if _, err := io.ReadFull(f, buf); err != nil {
				return WAVInfo{}, fmt.Errorf("read wav fmt chunk: %w", err)
			}
			if binary.LittleEndian.Uint16(buf[0:2]) != 1 {
				return WAVInfo{}, ErrUnsupportedWAV
			}
			channels = binary.LittleEndian.Uint16(buf[2:4])
			sampleRate = binary.LittleEndian.Uint32(buf[4:8])
			bitsPerSample = binary.LittleEndian.Uint16(buf[14:16])
			hasFmt = true
			if chunkSize%2 != 0 {
				if _, err := f.Seek(1, io.SeekCurrent); err != nil {
					return WAVInfo{}, fmt.Errorf("seek wav fmt padding: %w", err)
				}
			}
		case "data":
			data = make([]byte, chunkSize)
			if _, err := io.ReadFull(f, data); err != nil {
				return WAVInfo{}, fmt.Errorf("read wav data: %w", err)
			}
			if chunkSize%2 != 0 {
				if _, err := f.Seek(1, io.SeekCurrent); err != nil {
					return WAVInfo{}, fmt.Errorf("seek wav data padding: %w", err)
				}
			}
		default:
			if _, err := f.Seek(skip, io.SeekCurrent); err != nil {
				return WAVInfo{}, fmt.Errorf("seek wav chunk %s: %w", chunkID, err)
			}
		}
	}

	if !hasFmt || data == nil {
		return WAVInfo{}, ErrInvalidWAV
	}
	if bitsPerSample != 16 {
		return WAVInfo{}, ErrUnsupportedWAV
	}
	if channels == 0 || sampleRate == 0 {
		return WAVInfo{}, ErrInvalidWAV
	}

	var peak, sumSquares float64
	var samples int64
	for i := 0; i+2 <= len(data); i += 2 {
		value := float64(int16(binary.LittleEndian.Uint16(data[i:i+2]))) / 32768.0
		abs := math.Abs(value)
		if abs > peak {
			peak = abs
		}
		sumSquares += value * value
		samples++
	}

	info := WAVInfo{
		SampleRate: int(sampleRate),
		Channels:   int(channels),
		Samples:    samples,
	}
	if samples > 0 {
		frames := samples / int64(channels)
		info.Duration = time.Duration(float64(frames) / float64(sampleRate) * float64(time.Second))
		info.RMSdBFS = amplitudeToDBFS(math.Sqrt(sumSquares / float64(samples)))
		info.PeakdBFS = amplitudeToDBFS(peak)
	} else {
		info.RMSdBFS = math.Inf(-1)
		info.PeakdBFS = math.Inf(-1)
	}

	return info, nil
}

func amplitudeToDBFS(amplitude float64) float64 {
	if amplitude <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(amplitude)
}
