package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"chessmate/host/serial"
)

var (
	device  = flag.String("device", "/dev/ttyACM0", "Serial device path")
	baud    = flag.Int("baud", 115200, "Baud rate")
	timeout = flag.Duration("timeout", 3*time.Minute, "How long to wait for Done! per command")
)

// The board has no error channel: failure shows up as a missing Done!
// line, so every command gets a host-side deadline.
func main() {
	flag.Parse()

	fmt.Println("ChessMate Host - Gantry Command Console")
	fmt.Println("=======================================")

	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud
	cfg.ReadTimeout = 0 // blocking reads; a goroutine owns the port

	fmt.Printf("Connecting to gantry on %s...\n", *device)
	port, err := serial.Open(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer port.Close()

	// Give the board time to reset and emit its banner.
	time.Sleep(2 * time.Second)

	responses := make(chan string, 16)
	go readLines(port, responses)
	drainBanner(responses)

	fmt.Println("Enter commands (home, raise, lower, X:<n> Y:<n>; 'quit' to exit):")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" || line == "q" {
			fmt.Println("Goodbye!")
			return
		}

		if err := sendCommand(port, responses, line, *timeout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}
}

// sendCommand writes one command line and echoes board output until the
// Done! ack arrives or the deadline expires.
func sendCommand(port io.Writer, responses <-chan string, line string, timeout time.Duration) error {
	if _, err := port.Write([]byte(line + "\n")); err != nil {
		return fmt.Errorf("write %q: %w", line, err)
	}

	deadline := time.After(timeout)
	for {
		select {
		case resp := <-responses:
			fmt.Println(resp)
			if strings.HasPrefix(resp, "Done") {
				return nil
			}
		case <-deadline:
			return fmt.Errorf("timed out waiting for Done! after %q", line)
		}
	}
}

func readLines(port io.Reader, out chan<- string) {
	scanner := bufio.NewScanner(port)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			out <- line
		}
	}
	close(out)
}

// drainBanner prints whatever the board said at startup.
func drainBanner(responses <-chan string) {
	for {
		select {
		case resp := <-responses:
			fmt.Println(resp)
		case <-time.After(200 * time.Millisecond):
			return
		}
	}
}
