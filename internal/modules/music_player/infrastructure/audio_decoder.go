package infrastructure

import (
	"errors"
	"fmt"
	"io"

	"github.com/asticode/go-astiav"
)

// PCM format expected by the Opus encoder and Discord.
const (
	pcmSampleRate     = 48000
	pcmChannels       = 2
	pcmBytesPerSample = 2
	pcmFrameSamples   = 960 // 20 ms per channel at 48 kHz
	pcmFrameBytes     = pcmFrameSamples * pcmChannels * pcmBytesPerSample
)

// pcmDecoder decodes the best audio stream of a local file into interleaved
// s16le 48 kHz stereo PCM.
type pcmDecoder struct {
	fc     *astiav.FormatContext
	stream *astiav.Stream
	dec    *astiav.CodecContext
	swr    *astiav.SoftwareResampleContext
	packet *astiav.Packet
	src    *astiav.Frame
	dst    *astiav.Frame

	pending  []byte
	draining bool
	eof      bool
}

// openPCMDecoder opens path and prepares its audio stream for decoding.
func openPCMDecoder(path string) (*pcmDecoder, error) {
	d := &pcmDecoder{}

	d.fc = astiav.AllocFormatContext()
	if d.fc == nil {
		return nil, errors.New("failed to allocate format context")
	}
	if err := d.fc.OpenInput(path, nil, nil); err != nil {
		d.fc.Free()
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	if err := d.init(); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

func (d *pcmDecoder) init() error {
	if err := d.fc.FindStreamInfo(nil); err != nil {
		return fmt.Errorf("failed to find stream info: %w", err)
	}

	stream, codec, err := d.fc.FindBestStream(astiav.MediaTypeAudio, -1, -1)
	if err != nil {
		return fmt.Errorf("failed to find audio stream: %w", err)
	}
	if stream == nil || codec == nil {
		return errors.New("no audio stream found")
	}
	d.stream = stream

	d.dec = astiav.AllocCodecContext(codec)
	if d.dec == nil {
		return errors.New("failed to allocate decoder context")
	}
	if err := d.dec.FromCodecParameters(stream.CodecParameters()); err != nil {
		return fmt.Errorf("failed to copy codec parameters: %w", err)
	}
	d.dec.SetTimeBase(stream.TimeBase())
	if err := d.dec.Open(codec, nil); err != nil {
		return fmt.Errorf("failed to open decoder: %w", err)
	}

	d.swr = astiav.AllocSoftwareResampleContext()
	d.packet = astiav.AllocPacket()
	d.src = astiav.AllocFrame()
	d.dst = astiav.AllocFrame()
	if d.swr == nil || d.packet == nil || d.src == nil || d.dst == nil {
		return errors.New("failed to allocate decoding buffers")
	}

	return nil
}

// ReadFrame fills buf with the next PCM samples. The final partial frame is
// padded with silence; io.EOF is returned once everything has been read.
func (d *pcmDecoder) ReadFrame(buf []byte) error {
	for len(d.pending) < len(buf) {
		if d.eof {
			if len(d.pending) == 0 {
				return io.EOF
			}
			n := copy(buf, d.pending)
			clear(buf[n:])
			d.pending = d.pending[:0]
			return nil
		}
		if err := d.decodeNext(); err != nil {
			return err
		}
	}

	copy(buf, d.pending)
	d.pending = append(d.pending[:0], d.pending[len(buf):]...)
	return nil
}

// decodeNext appends at least one decoded frame to pending, or marks eof.
func (d *pcmDecoder) decodeNext() error {
	for {
		d.src.Unref()
		err := d.dec.ReceiveFrame(d.src)
		switch {
		case err == nil:
			return d.resample(d.src)
		case errors.Is(err, astiav.ErrEof):
			d.eof = true
			return nil
		case !errors.Is(err, astiav.ErrEagain):
			return fmt.Errorf("failed to receive frame: %w", err)
		}

		if d.draining {
			d.eof = true
			return nil
		}

		d.packet.Unref()
		if err := d.fc.ReadFrame(d.packet); err != nil {
			if !errors.Is(err, astiav.ErrEof) {
				return fmt.Errorf("failed to read packet: %w", err)
			}
			d.draining = true
			if err := d.dec.SendPacket(nil); err != nil && !errors.Is(err, astiav.ErrEof) {
				return fmt.Errorf("failed to flush decoder: %w", err)
			}
			continue
		}

		if d.packet.StreamIndex() != d.stream.Index() {
			continue
		}
		if err := d.dec.SendPacket(d.packet); err != nil && !errors.Is(err, astiav.ErrEagain) {
			return fmt.Errorf("failed to send packet: %w", err)
		}
	}
}

func (d *pcmDecoder) resample(src *astiav.Frame) error {
	d.dst.Unref()
	d.dst.SetChannelLayout(astiav.ChannelLayoutStereo)
	d.dst.SetSampleRate(pcmSampleRate)
	d.dst.SetSampleFormat(astiav.SampleFormatS16)

	if err := d.swr.ConvertFrame(src, d.dst); err != nil {
		return fmt.Errorf("failed to resample frame: %w", err)
	}
	if d.dst.NbSamples() == 0 {
		return nil
	}

	b, err := d.dst.Data().Bytes(1)
	if err != nil {
		return fmt.Errorf("failed to read resampled frame: %w", err)
	}
	d.pending = append(d.pending, b...)
	return nil
}

// Close releases every FFmpeg handle, including the open file.
func (d *pcmDecoder) Close() {
	if d.dst != nil {
		d.dst.Free()
	}
	if d.src != nil {
		d.src.Free()
	}
	if d.packet != nil {
		d.packet.Free()
	}
	if d.swr != nil {
		d.swr.Free()
	}
	if d.dec != nil {
		d.dec.Free()
	}
	if d.fc != nil {
		d.fc.CloseInput()
		d.fc.Free()
	}
}
