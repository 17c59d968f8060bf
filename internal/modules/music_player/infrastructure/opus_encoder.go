package infrastructure

import (
	"errors"
	"fmt"

	"github.com/asticode/go-astiav"
)

const opusBitRate = 160_000

// opusEncoder encodes 20 ms PCM frames into Opus packets with libopus.
type opusEncoder struct {
	cc     *astiav.CodecContext
	frame  *astiav.Frame
	packet *astiav.Packet
}

func newOpusEncoder() (*opusEncoder, error) {
	codec := astiav.FindEncoderByName("libopus")
	if codec == nil {
		return nil, errors.New("libopus encoder not found")
	}

	cc := astiav.AllocCodecContext(codec)
	if cc == nil {
		return nil, errors.New("failed to allocate encoder context")
	}
	cc.SetSampleRate(pcmSampleRate)
	cc.SetChannelLayout(astiav.ChannelLayoutStereo)
	cc.SetSampleFormat(astiav.SampleFormatS16)
	cc.SetBitRate(opusBitRate)

	opts := astiav.NewDictionary()
	defer opts.Free()
	_ = opts.Set("frame_duration", "20", 0)
	_ = opts.Set("application", "audio", 0)

	if err := cc.Open(codec, opts); err != nil {
		cc.Free()
		return nil, fmt.Errorf("failed to open opus encoder: %w", err)
	}

	frame := astiav.AllocFrame()
	if frame == nil {
		cc.Free()
		return nil, errors.New("failed to allocate encoder frame")
	}
	frame.SetSampleRate(pcmSampleRate)
	frame.SetChannelLayout(astiav.ChannelLayoutStereo)
	frame.SetSampleFormat(astiav.SampleFormatS16)
	frame.SetNbSamples(pcmFrameSamples)
	if err := frame.AllocBuffer(0); err != nil {
		frame.Free()
		cc.Free()
		return nil, fmt.Errorf("failed to allocate encoder frame buffer: %w", err)
	}

	packet := astiav.AllocPacket()
	if packet == nil {
		frame.Free()
		cc.Free()
		return nil, errors.New("failed to allocate encoder packet")
	}

	return &opusEncoder{cc: cc, frame: frame, packet: packet}, nil
}

// Encode encodes one frame of pcmFrameBytes and returns the packets it produced.
func (e *opusEncoder) Encode(pcm []byte) ([][]byte, error) {
	if len(pcm) != pcmFrameBytes {
		return nil, fmt.Errorf("invalid PCM frame size: expected %d bytes, got %d", pcmFrameBytes, len(pcm))
	}

	if err := e.frame.MakeWritable(); err != nil {
		return nil, fmt.Errorf("failed to make frame writable: %w", err)
	}
	if err := e.frame.Data().SetBytes(pcm, 0); err != nil {
		return nil, fmt.Errorf("failed to set frame data: %w", err)
	}
	if err := e.cc.SendFrame(e.frame); err != nil {
		return nil, fmt.Errorf("failed to send frame to encoder: %w", err)
	}

	var packets [][]byte
	for {
		e.packet.Unref()
		if err := e.cc.ReceivePacket(e.packet); err != nil {
			if errors.Is(err, astiav.ErrEagain) || errors.Is(err, astiav.ErrEof) {
				break
			}
			return nil, fmt.Errorf("failed to receive opus packet: %w", err)
		}
		packets = append(packets, e.packet.Data())
	}
	return packets, nil
}

// Close releases the encoder.
func (e *opusEncoder) Close() {
	e.packet.Free()
	e.frame.Free()
	e.cc.Free()
}
