package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/ezrec/chip8/emulator"
	"github.com/ezrec/chip8/io"
)

const (
	KEY_CTRL_C = 0x03
	KEY_ESCAPE = 0x1b

	POLL_INTERVAL = 5 * time.Millisecond // Input poll and key expiry period.

	ansiHome       = "\x1b[H"
	ansiClear      = "\x1b[2J"
	ansiHideCursor = "\x1b[?25l"
	ansiShowCursor = "\x1b[?25h"
)

var (
	ErrNotTerminal   = errors.New(f("stdin is not a terminal"))
	ErrTerminalSmall = errors.New(f("terminal smaller than %dx%d", io.SCREEN_WIDTH, io.SCREEN_HEIGHT/2))
)

// halfBlocks renders two pixel rows per text line.
func halfBlocks(pixel [io.SCREEN_HEIGHT][io.SCREEN_WIDTH]bool) string {
	var sb strings.Builder

	for y := 0; y < io.SCREEN_HEIGHT; y += 2 {
		for x := range io.SCREEN_WIDTH {
			upper := pixel[y][x]
			lower := y+1 < io.SCREEN_HEIGHT && pixel[y+1][x]
			switch {
			case upper && lower:
				sb.WriteRune('█')
			case upper:
				sb.WriteRune('▀')
			case lower:
				sb.WriteRune('▄')
			default:
				sb.WriteByte(' ')
			}
		}
		sb.WriteString("\r\n")
	}

	return sb.String()
}

// render repaints the terminal each time the framebuffer changes.
func render(ctx context.Context, out *os.File, display *io.Framebuffer) (err error) {
	for {
		_, err = out.WriteString(ansiHome + halfBlocks(display.Snapshot()))
		if err != nil {
			return
		}

		select {
		case <-ctx.Done():
			return nil
		case <-display.Updated():
		}
	}
}

// input feeds key bytes from a nonblocking fd to the keyboard, until
// Ctrl-C or Escape is read.
func input(ctx context.Context, fd int, keyboard *io.Keyboard, quit context.CancelFunc) (err error) {
	ticker := time.NewTicker(POLL_INTERVAL)
	defer ticker.Stop()

	buf := make([]byte, 64)
	for {
		var n int
		n, err = unix.Read(fd, buf)
		switch {
		case errors.Is(err, unix.EAGAIN), errors.Is(err, unix.EINTR):
			n = 0
		case err != nil:
			return
		}

		data := buf[:n]
		if bytes.IndexByte(data, KEY_CTRL_C) >= 0 || bytes.IndexByte(data, KEY_ESCAPE) >= 0 {
			quit()
			return nil
		}

		now := time.Now()
		keyboard.Feed(data, now)
		keyboard.Expire(now)

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// runTerminal runs the emulator on the controlling terminal, until the
// user quits, the context is done, or the CPU faults.
func runTerminal(ctx context.Context, emu *emulator.Emulator, hold time.Duration) (err error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		err = ErrNotTerminal
		return
	}

	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return
	}
	if width < io.SCREEN_WIDTH || height < io.SCREEN_HEIGHT/2 {
		err = ErrTerminalSmall
		return
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return
	}
	defer func() {
		err = errors.Join(err, term.Restore(fd, state))
	}()

	err = unix.SetNonblock(fd, true)
	if err != nil {
		return
	}
	defer func() {
		err = errors.Join(err, unix.SetNonblock(fd, false))
	}()

	os.Stdout.WriteString(ansiClear + ansiHideCursor)
	defer os.Stdout.WriteString(ansiShowCursor + "\r\n")

	ctx, quit := context.WithCancel(ctx)
	defer quit()

	keyboard := io.NewKeyboard(&emu.Cpu.Keypad)
	keyboard.Hold = hold

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		defer quit()
		return emu.Run(ctx)
	})
	group.Go(func() error {
		return render(ctx, os.Stdout, emu.Display)
	})
	group.Go(func() error {
		return input(ctx, fd, keyboard, quit)
	})

	err = group.Wait()
	return
}
