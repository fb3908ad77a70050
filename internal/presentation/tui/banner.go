package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner outputs a professional ASCII art banner for Voyant.
func PrintBanner(version string) {
	p := termenv.ColorProfile()
	// Sky-to-lime gradient, top to bottom
	s1 := termenv.String("__     __                             _").Foreground(p.Color("#38bdf8"))
	s2 := termenv.String("\\ \\   / /  ___   _   _   __ _  _ __  | |_").Foreground(p.Color("#22d3ee"))
	s3 := termenv.String(" \\ \\ / /  / _ \\ | | | | / _` || '_ \\ | __|").Foreground(p.Color("#2dd4bf"))
	s4 := termenv.String("  \\ V /  | (_) || |_| || (_| || | | || |_").Foreground(p.Color("#34d399"))
	s5 := termenv.String("   \\_/    \\___/  \\__, | \\__,_||_| |_| \\__|").Foreground(p.Color("#4ade80"))
	s6 := termenv.String("                 |___/").Foreground(p.Color("#a3e635"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println(s6)
	if v := strings.TrimSpace(version); v != "" {
		fmt.Println(termenv.String("  travel agent  v" + v).Faint())
	}
	fmt.Println()
}
