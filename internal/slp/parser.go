package slp

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
	"golang.org/x/text/width"
)

// Game Start field offsets, relative to the command byte
const (
	offVersion        = 0x01
	offIsTeams        = 0x0D
	offStage          = 0x13
	offPlayerBlocks   = 0x65
	playerBlockSize   = 0x24
	offPlayerType     = 0x01
	offPlayerStocks   = 0x02
	offPlayerCostume  = 0x03
	offPlayerTeam     = 0x09
	offNameTags       = 0x161
	nameTagSize       = 0x10
	offIsPAL          = 0x1A1
	offDisplayNames   = 0x1A5
	displayNameSize   = 0x1F
	offConnectCodes   = 0x221
	connectCodeSize   = 0x0A
	offEndMethod      = 0x01
	offLRASInitiator  = 0x02
	rawKey            = "raw"
	metadataKey       = "metadata"
	metadataStartAt   = "startAt"
	metadataLastFrame = "lastFrame"
	metadataPlayedOn  = "playedOn"
)

// Options controls how much of a replay is decoded
type Options struct {
	// SkipEnd stops after the Game Start event
	SkipEnd bool
	// SkipMetadata ignores the trailing metadata block
	SkipMetadata bool
}

// ParseFile decodes the replay at path
func ParseFile(path string, opts Options) (*Game, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	game, err := Parse(bufio.NewReader(f), opts)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return game, nil
}

// Parse decodes a replay from r
func Parse(r io.Reader, opts Options) (*Game, error) {
	u := newUBJSONReader(r)

	rawLen, err := readRawHeader(u)
	if err != nil {
		return nil, err
	}

	// A zero length is written while the game is still being recorded; the
	// event stream then runs to the end of the file.
	inProgress := rawLen == 0
	var raw io.Reader = u.r
	if !inProgress {
		raw = io.LimitReader(u.r, rawLen)
	}

	game, err := readEvents(raw, opts)
	if err != nil {
		return nil, err
	}

	if opts.SkipMetadata || inProgress {
		return game, nil
	}

	if _, err := io.Copy(io.Discard, raw); err != nil {
		return nil, err
	}
	meta, err := readMetadata(u)
	if err != nil {
		return nil, err
	}
	game.Metadata = meta
	return game, nil
}

// readRawHeader consumes the envelope up to the first raw byte and returns the raw length
func readRawHeader(u *ubjsonReader) (int64, error) {
	if err := u.expect(markerObjOpen); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNotReplay, err)
	}
	key, err := u.readKey()
	if err != nil || key != rawKey {
		return 0, fmt.Errorf("%w: first key is not %q", ErrNotReplay, rawKey)
	}
	if err := u.expect(markerArrayOpen); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNotReplay, err)
	}
	if err := u.expect(markerType); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNotReplay, err)
	}
	if err := u.expect(markerUint8); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNotReplay, err)
	}
	if err := u.expect(markerCount); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNotReplay, err)
	}
	n, err := u.readLength()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNotReplay, err)
	}
	return int64(n), nil
}

func readEvents(raw io.Reader, opts Options) (*Game, error) {
	sizes, err := readPayloadSizes(raw)
	if err != nil {
		return nil, err
	}

	game := &Game{}
	started := false
	cmd := make([]byte, 1)

	for {
		if _, err := io.ReadFull(raw, cmd); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}

		size, ok := sizes[cmd[0]]
		if !ok {
			return nil, fmt.Errorf("%w: 0x%02x", ErrUnknownCommand, cmd[0])
		}

		switch cmd[0] {
		case CmdGameStart, CmdGameEnd:
			payload := make([]byte, int(size)+1)
			payload[0] = cmd[0]
			if _, err := io.ReadFull(raw, payload[1:]); err != nil {
				if !started {
					return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
				}
				game.Truncated = true
				return game, nil
			}
			if cmd[0] == CmdGameStart {
				game.Start = decodeGameStart(payload)
				started = true
				if opts.SkipEnd {
					return game, nil
				}
			} else {
				game.End = decodeGameEnd(payload, game.Start.Version)
			}
		default:
			if !started && cmd[0] != CmdMessageSplitter && cmd[0] != CmdGeckoList {
				return nil, ErrMissingGameStart
			}
			n, err := io.CopyN(io.Discard, raw, int64(size))
			if err != nil || n != int64(size) {
				if !started {
					return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
				}
				game.Truncated = true
				return game, nil
			}
		}
	}

	if !started {
		return nil, ErrMissingGameStart
	}
	return game, nil
}

// readPayloadSizes decodes the Event Payloads event that opens the raw stream
func readPayloadSizes(raw io.Reader) (map[byte]uint16, error) {
	head := make([]byte, 2)
	if _, err := io.ReadFull(raw, head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingPayloads, err)
	}
	if head[0] != CmdEventPayloads {
		return nil, fmt.Errorf("%w: first command is 0x%02x", ErrMissingPayloads, head[0])
	}

	size := int(head[1])
	if size < 1 || (size-1)%3 != 0 {
		return nil, fmt.Errorf("%w: invalid size %d", ErrMissingPayloads, size)
	}

	body := make([]byte, size-1)
	if _, err := io.ReadFull(raw, body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}

	sizes := make(map[byte]uint16, len(body)/3)
	sizes[CmdEventPayloads] = uint16(size)
	for i := 0; i+2 < len(body); i += 3 {
		sizes[body[i]] = binary.BigEndian.Uint16(body[i+1 : i+3])
	}

	if _, ok := sizes[CmdGameStart]; !ok {
		return nil, fmt.Errorf("%w: no size declared for game start", ErrMissingPayloads)
	}
	return sizes, nil
}

func decodeGameStart(p []byte) GameStart {
	gs := GameStart{
		Version: Version{Major: byteAt(p, offVersion), Minor: byteAt(p, offVersion+1), Build: byteAt(p, offVersion+2)},
		IsTeams: byteAt(p, offIsTeams) != 0,
		Stage:   uint16At(p, offStage),
		IsPAL:   byteAt(p, offIsPAL) != 0,
	}

	for i := 0; i < NumPorts; i++ {
		block := offPlayerBlocks + i*playerBlockSize
		ptype := PlayerType(byteAt(p, block+offPlayerType))
		if ptype == PlayerEmpty {
			continue
		}

		gs.Players = append(gs.Players, PlayerStart{
			Port:        i + 1,
			Character:   byteAt(p, block),
			Type:        ptype,
			Stocks:      byteAt(p, block+offPlayerStocks),
			Costume:     byteAt(p, block+offPlayerCostume),
			Team:        byteAt(p, block+offPlayerTeam),
			NameTag:     shiftJISAt(p, offNameTags+i*nameTagSize, nameTagSize),
			DisplayName: shiftJISAt(p, offDisplayNames+i*displayNameSize, displayNameSize),
			ConnectCode: shiftJISAt(p, offConnectCodes+i*connectCodeSize, connectCodeSize),
		})
	}
	return gs
}

func decodeGameEnd(p []byte, v Version) *GameEnd {
	end := &GameEnd{Method: byteAt(p, offEndMethod), LRASInitiator: -1}
	if v.AtLeast(2, 0, 0) && len(p) > offLRASInitiator {
		end.LRASInitiator = int8(p[offLRASInitiator])
	}
	return end
}

// readMetadata reads the remaining keys of the envelope and decodes "metadata" if present
func readMetadata(u *ubjsonReader) (*Metadata, error) {
	for {
		m, err := u.peekMarker()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, nil
			}
			return nil, err
		}
		if m == markerObjEnd {
			return nil, nil
		}

		key, err := u.readKey()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUBJSON, err)
		}
		value, err := u.readValue()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUBJSON, err)
		}
		if key != metadataKey {
			continue
		}

		obj, ok := value.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: metadata is not an object", ErrUBJSON)
		}
		return decodeMetadata(obj), nil
	}
}

func decodeMetadata(obj map[string]any) *Metadata {
	meta := &Metadata{Raw: obj}

	if s, ok := obj[metadataStartAt].(string); ok {
		meta.StartAt = parseStartAt(s)
	}
	if n, ok := obj[metadataLastFrame].(int64); ok {
		meta.LastFrame = int(n)
		meta.HasFrames = true
	}
	if s, ok := obj[metadataPlayedOn].(string); ok {
		meta.PlayedOn = s
	}
	return meta
}

func parseStartAt(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func byteAt(p []byte, off int) uint8 {
	if off >= len(p) {
		return 0
	}
	return p[off]
}

func uint16At(p []byte, off int) uint16 {
	if off+2 > len(p) {
		return 0
	}
	return binary.BigEndian.Uint16(p[off : off+2])
}

// shiftJISAt decodes a NUL-terminated Shift-JIS string and folds full-width
// characters to their narrow forms. Out-of-range fields decode to "".
func shiftJISAt(p []byte, off, n int) string {
	if off+n > len(p) {
		return ""
	}
	return decodeShiftJIS(p[off : off+n])
}

func decodeShiftJIS(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	if len(b) == 0 {
		return ""
	}

	out, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), b)
	if err != nil {
		return ""
	}
	return width.Narrow.String(string(out))
}
