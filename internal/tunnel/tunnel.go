// Package tunnel forwards a local port to the database through an SSH bastion.
package tunnel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/idcard-hub/idcard-menu-services/internal/appconfig"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/ssh"
)

// Dialer opens connections on the far side of the tunnel.
type Dialer interface {
	Dial(network, addr string) (net.Conn, error)
}

type Tunnel struct {
	config   appconfig.TunnelConfig
	client   *ssh.Client
	listener net.Listener
	log      *zerolog.Logger
}

// SSHClient creates a new SSH client
func SSHClient(config appconfig.TunnelConfig) (*ssh.Client, error) {
	key, err := os.ReadFile(config.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read private key: %w", err)
	}

	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("unable to parse private key: %w", err)
	}

	sshConfig := &ssh.ClientConfig{
		User: config.SSHUser,
		Auth: []ssh.AuthMethod{
			ssh.PublicKeys(signer),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         5 * time.Second,
	}

	client, err := ssh.Dial("tcp", net.JoinHostPort(config.SSHHost, config.SSHPort), sshConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to reach bastion %s: %w", config.SSHHost, err)
	}

	return client, nil
}

// Start connects to the bastion and forwards localhost:LocalPort to the
// remote host until ctx is cancelled or Close is called.
func Start(ctx context.Context, config appconfig.TunnelConfig, log *zerolog.Logger) (*Tunnel, error) {
	client, err := SSHClient(config)
	if err != nil {
		return nil, err
	}

	listener, err := net.Listen("tcp", net.JoinHostPort("localhost", config.LocalPort))
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("unable to listen on local port %s: %w", config.LocalPort, err)
	}

	t := &Tunnel{config: config, client: client, listener: listener, log: log}

	log.Info().
		Str("local_port", config.LocalPort).
		Str("remote", net.JoinHostPort(config.RemoteHost, config.RemotePort)).
		Msg("SSH tunnel started")

	go func() {
		<-ctx.Done()
		listener.Close()
	}()
	go Forward(listener, client, net.JoinHostPort(config.RemoteHost, config.RemotePort), log)

	return t, nil
}

// Close stops accepting connections and closes the SSH session.
func (t *Tunnel) Close() error {
	lErr := t.listener.Close()
	if errors.Is(lErr, net.ErrClosed) {
		lErr = nil
	}
	return errors.Join(lErr, t.client.Close())
}

// Forward accepts connections on listener and pipes each one to remoteAddr
// through dialer. It returns when the listener is closed.
func Forward(listener net.Listener, dialer Dialer, remoteAddr string, log *zerolog.Logger) {
	for {
		localConn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			log.Warn().Err(err).Msg("Failed to accept local connection")
			continue
		}

		remoteConn, err := dialer.Dial("tcp", remoteAddr)
		if err != nil {
			log.Error().Err(err).Str("remote", remoteAddr).Msg("Failed to connect to remote host")
			localConn.Close()
			continue
		}

		go pipe(localConn, remoteConn)
	}
}

func pipe(local, remote net.Conn) {
	defer local.Close()
	defer remote.Close()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		io.Copy(remote, local)
		// unblock the other direction once the client is done
		remote.Close()
	}()
	io.Copy(local, remote)
	local.Close()
	wg.Wait()
}
