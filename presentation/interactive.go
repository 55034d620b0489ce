package presentation

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jessiex/kytan/infrastructure/settings"
	"github.com/jessiex/kytan/presentation/bubble_tea"
)

const (
	ClientMode = "client"
	ServerMode = "server"
)

// PromptMode asks which role to run when the binary is launched without a
// subcommand.
func PromptMode() (string, error) {
	final, err := tea.NewProgram(
		bubble_tea.NewSelector("Select mode:", []string{ClientMode, ServerMode}),
	).Run()
	if err != nil {
		return "", err
	}

	choice := final.(bubble_tea.Selector).Choice()
	if choice == "" {
		return "", fmt.Errorf("no mode selected")
	}
	return choice, nil
}

// PromptClientSettings collects the server endpoint and the default-gateway
// preference interactively.
func PromptClientSettings() (settings.ClientSettings, error) {
	final, err := tea.NewProgram(
		bubble_tea.NewTextInput("server host, optionally host:port"),
	).Run()
	if err != nil {
		return settings.ClientSettings{}, err
	}

	raw := strings.TrimSpace(final.(*bubble_tea.TextInput).Value())
	if raw == "" {
		return settings.ClientSettings{}, fmt.Errorf("no server host given")
	}

	host, port := raw, settings.DefaultPort
	if h, p, splitErr := net.SplitHostPort(raw); splitErr == nil {
		parsed, parseErr := strconv.ParseUint(p, 10, 16)
		if parseErr != nil {
			return settings.ClientSettings{}, fmt.Errorf("invalid port %q", p)
		}
		host, port = h, uint16(parsed)
	}

	gatewayChoice, err := tea.NewProgram(
		bubble_tea.NewSelector("Route all traffic through the tunnel?", []string{"no", "yes"}),
	).Run()
	if err != nil {
		return settings.ClientSettings{}, err
	}

	return settings.ClientSettings{
		Host:           host,
		Port:           port,
		DefaultGateway: gatewayChoice.(bubble_tea.Selector).Choice() == "yes",
	}, nil
}

// PromptServerSettings collects the listen port, defaulting when left empty.
func PromptServerSettings() (settings.ServerSettings, error) {
	final, err := tea.NewProgram(
		bubble_tea.NewTextInput(fmt.Sprintf("listen port (default %d)", settings.DefaultPort)),
	).Run()
	if err != nil {
		return settings.ServerSettings{}, err
	}

	raw := strings.TrimSpace(final.(*bubble_tea.TextInput).Value())
	if raw == "" {
		return settings.ServerSettings{Port: settings.DefaultPort}, nil
	}
	parsed, parseErr := strconv.ParseUint(raw, 10, 16)
	if parseErr != nil {
		return settings.ServerSettings{}, fmt.Errorf("invalid port %q", raw)
	}
	return settings.ServerSettings{Port: uint16(parsed)}, nil
}
