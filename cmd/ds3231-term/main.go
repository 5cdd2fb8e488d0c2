// The ds3231-term command talks to the ds3231 console firmware over a USB serial port.
//
// With no arguments it copies stdin to the port and the port to stdout. Otherwise the arguments are sent as a
// single console command and its output is printed.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/tarm/serial"
)

var (
	portFlag = flag.String("port", "/dev/ttyACM0", "serial device")
	baud     = flag.Int("baud", 115200, "baud rate, ignored by USB CDC")
	timeout  = flag.Duration("timeout", 2*time.Second, "how long to wait for a command's output")
)

// prompt is printed by the console before each command it reads.
const prompt = "> "

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: ds3231-term [flags] [command [arg...]]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := &serial.Config{
		Name: *portFlag,
		Baud: *baud,
	}
	if flag.NArg() > 0 {
		cfg.ReadTimeout = 100 * time.Millisecond
	}
	port, err := serial.OpenPort(cfg)
	if err != nil {
		log.Fatalf("cannot open %s: %v", *portFlag, err)
	}
	defer port.Close()

	if flag.NArg() == 0 {
		go func() {
			if _, err := io.Copy(port, os.Stdin); err != nil {
				log.Fatalf("write: %v", err)
			}
			os.Exit(0)
		}()
		if _, err := io.Copy(os.Stdout, port); err != nil {
			log.Fatalf("read: %v", err)
		}
		return
	}

	out, err := command(port, strings.Join(flag.Args(), " "), *timeout)
	if err != nil {
		log.Fatal(err)
	}
	os.Stdout.Write(out)
}

// command sends line and returns everything the console prints up to its next prompt.
func command(port io.ReadWriter, line string, timeout time.Duration) ([]byte, error) {
	// the firmware echoes nothing, so anything pending belongs to an earlier prompt
	drain(port)
	if _, err := io.WriteString(port, line+"\n"); err != nil {
		return nil, fmt.Errorf("write: %v", err)
	}
	var out bytes.Buffer
	buf := make([]byte, 256)
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		n, err := port.Read(buf)
		out.Write(buf[:n])
		if bytes.HasSuffix(out.Bytes(), []byte(prompt)) {
			return bytes.TrimSuffix(out.Bytes(), []byte(prompt)), nil
		}
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("read: %v", err)
		}
	}
	return nil, fmt.Errorf("no prompt after %v, got %q", timeout, out.String())
}

func drain(r io.Reader) {
	buf := make([]byte, 256)
	for {
		n, err := r.Read(buf)
		if n == 0 || err != nil {
			return
		}
	}
}
