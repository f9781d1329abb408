package voice

import (
	"bytes"
	"encoding/binary"
	"math"
)

const (
	demoSampleRate = 22050
	demoFrequency  = 440.0
	demoAmplitude  = 0.1
)

// DemoTone returns one second of a 440 Hz sine at 10% amplitude as 16-bit
// mono PCM in a WAV container.
func DemoTone() []byte {
	samples := make([]int16, demoSampleRate)
	for i := range samples {
		samples[i] = int16(32767 * demoAmplitude * math.Sin(2*math.Pi*demoFrequency*float64(i)/demoSampleRate))
	}
	return encodeWAV(samples, demoSampleRate)
}

func encodeWAV(samples []int16, sampleRate int) []byte {
	const (
		channels      = 1
		bitsPerSample = 16
	)
	dataSize := len(samples) * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8

	var buf bytes.Buffer
	buf.Grow(44 + dataSize)
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataSize))
	binary.Write(&buf, binary.LittleEndian, samples)
	return buf.Bytes()
}
