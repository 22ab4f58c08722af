// Package devicesim provides a minimal Modbus TCP device that serves a
// register image, so the gateway can be exercised without AQM/PMM
// hardware on the bench.
package devicesim

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
)

const (
	functionReadHoldingRegs = 0x03
	functionReadInputRegs   = 0x04

	exceptionIllegalFunction = 0x01
	exceptionIllegalDataAddr = 0x02
	exceptionIllegalDataVal  = 0x03
)

var (
	errOutOfRange    = errors.New("out of range")
	errInvalidQty    = errors.New("invalid quantity")
	errInvalidPDULen = errors.New("invalid pdu length")
)

// Simulator serves one register image over Modbus TCP. The sensors only
// expose register reads, so holding and input reads both return the same
// image and everything else answers with an illegal-function exception.
type Simulator struct {
	listener  net.Listener
	wg        sync.WaitGroup
	quit      chan struct{}
	closeOnce sync.Once

	mu        sync.RWMutex
	registers []uint16
}

// New constructs a simulator with size registers, all zero.
func New(size int) *Simulator {
	return &Simulator{
		registers: make([]uint16, size),
		quit:      make(chan struct{}),
	}
}

// LoadImage replaces the register image.
func (s *Simulator) LoadImage(regs []uint16) {
	img := make([]uint16, len(regs))
	copy(img, regs)
	s.mu.Lock()
	s.registers = img
	s.mu.Unlock()
}

// SetRegister updates one register value.
func (s *Simulator) SetRegister(address, value uint16) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if int(address) >= len(s.registers) {
		return fmt.Errorf("address %d out of range", address)
	}
	s.registers[address] = value
	return nil
}

// Register returns the current value at address.
func (s *Simulator) Register(address uint16) (uint16, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if int(address) >= len(s.registers) {
		return 0, fmt.Errorf("address %d out of range", address)
	}
	return s.registers[address], nil
}

// Listen starts accepting Modbus TCP connections on the provided address.
func (s *Simulator) Listen(address string) error {
	l, err := net.Listen("tcp", address)
	if err != nil {
		return err
	}
	s.listener = l

	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

// Addr returns the bound listen address, useful with ":0".
func (s *Simulator) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Simulator) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.quit:
				return
			default:
			}
			continue
		}

		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

func (s *Simulator) handleConnection(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	header := make([]byte, 7)
	for {
		if _, err := io.ReadFull(conn, header); err != nil {
			return
		}

		length := binary.BigEndian.Uint16(header[4:6])
		if length == 0 {
			continue
		}

		pduLength := int(length - 1)
		if pduLength <= 0 {
			continue
		}

		unitID := header[6]
		pdu := make([]byte, pduLength)
		if _, err := io.ReadFull(conn, pdu); err != nil {
			return
		}

		response := s.handlePDU(pdu)
		if len(response) == 0 {
			continue
		}

		binary.BigEndian.PutUint16(header[2:4], 0)
		binary.BigEndian.PutUint16(header[4:6], uint16(len(response)+1))
		header[6] = unitID

		if _, err := conn.Write(header); err != nil {
			return
		}
		if _, err := conn.Write(response); err != nil {
			return
		}
	}
}

func (s *Simulator) handlePDU(pdu []byte) []byte {
	if len(pdu) == 0 {
		return exceptionResponse(0, exceptionIllegalFunction)
	}

	function := pdu[0]
	switch function {
	case functionReadHoldingRegs, functionReadInputRegs:
		data, err := s.readRegisters(pdu)
		if err != nil {
			return exceptionResponse(function, errToCode(err))
		}
		return append([]byte{function, byte(len(data))}, data...)
	default:
		return exceptionResponse(function, exceptionIllegalFunction)
	}
}

func (s *Simulator) readRegisters(pdu []byte) ([]byte, error) {
	if len(pdu) < 5 {
		return nil, errInvalidPDULen
	}
	start := binary.BigEndian.Uint16(pdu[1:3])
	quantity := binary.BigEndian.Uint16(pdu[3:5])
	if quantity == 0 || quantity > 125 {
		return nil, errInvalidQty
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if int(start)+int(quantity) > len(s.registers) {
		return nil, errOutOfRange
	}

	result := make([]byte, quantity*2)
	for i := 0; i < int(quantity); i++ {
		binary.BigEndian.PutUint16(result[i*2:(i+1)*2], s.registers[int(start)+i])
	}
	return result, nil
}

func exceptionResponse(function byte, code byte) []byte {
	if function == 0 {
		function = 0x80
	} else {
		function = function | 0x80
	}
	return []byte{function, code}
}

func errToCode(err error) byte {
	switch {
	case errors.Is(err, errOutOfRange):
		return exceptionIllegalDataAddr
	case errors.Is(err, errInvalidQty), errors.Is(err, errInvalidPDULen):
		return exceptionIllegalDataVal
	default:
		return exceptionIllegalFunction
	}
}

// Close stops the simulator and waits for all goroutines to exit.
func (s *Simulator) Close() {
	s.closeOnce.Do(func() {
		close(s.quit)
		if s.listener != nil {
			s.listener.Close()
		}
	})
	s.wg.Wait()
}
