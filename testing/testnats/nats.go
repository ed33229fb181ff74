package testnats

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const image = "nats:2.10-alpine"

var (
	server     *Server
	serverOnce sync.Once
)

// Server is a NATS broker running in a container, shared by every test in
// the package.
type Server struct {
	Container testcontainers.Container
	URL       string
}

// Start returns the package's NATS server, starting it on first use. Tests
// are skipped under -short.
//
// Usage:
//
//	func TestPublisher(t *testing.T) {
//	    srv := testnats.Start(t)
//	    defer srv.Stop(t)
//
//	    subject := testnats.Subject(t)
//	    sub := srv.Subscribe(t, subject)
//	    // publish to subject ...
//	    data := testnats.Next(t, sub, 2*time.Second)
//	}
func Start(t *testing.T) *Server {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping NATS container test in short mode")
	}

	serverOnce.Do(func() {
		ctx := context.Background()

		container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        image,
				ExposedPorts: []string{"4222/tcp"},
				WaitingFor:   wait.ForListeningPort("4222/tcp"),
			},
			Started: true,
		})
		require.NoError(t, err)

		host, err := container.Host(ctx)
		require.NoError(t, err)

		port, err := container.MappedPort(ctx, "4222")
		require.NoError(t, err)

		server = &Server{
			Container: container,
			URL:       "nats://" + host + ":" + port.Port(),
		}
	})

	require.NotNil(t, server, "NATS container failed to start")
	return server
}

func (s *Server) Stop(t *testing.T) {
	t.Helper()
	if s.Container == nil {
		return
	}
	if err := s.Container.Terminate(context.Background()); err != nil {
		t.Logf("failed to terminate NATS container: %s", err)
	}
}

// Subscribe opens a client connection and a synchronous subscription on
// subject. Both are closed when the test ends.
func (s *Server) Subscribe(t *testing.T, subject string) *nats.Subscription {
	t.Helper()

	conn, err := nats.Connect(s.URL, nats.Name("portfolio-service-test"))
	require.NoError(t, err)
	t.Cleanup(conn.Close)

	sub, err := conn.SubscribeSync(subject)
	require.NoError(t, err)
	require.NoError(t, conn.Flush())
	return sub
}

// Subject derives a subject from the test name so subtests do not see each
// other's messages.
func Subject(t *testing.T) string {
	return "test." + strings.NewReplacer("/", ".", " ", "_").Replace(t.Name())
}

// Next waits for the next message on sub and returns its payload.
func Next(t *testing.T, sub *nats.Subscription, timeout time.Duration) []byte {
	t.Helper()

	msg, err := sub.NextMsg(timeout)
	require.NoError(t, err, "no message on %s within %s", sub.Subject, timeout)
	return msg.Data
}
