package client

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomz197/skyraid/internal/catalog"
	"github.com/tomz197/skyraid/internal/draw"
	"github.com/tomz197/skyraid/internal/loop/config"
	"github.com/tomz197/skyraid/internal/loop/session"
	"github.com/tomz197/skyraid/internal/object"
)

var shipColor = draw.RGB(0x4d, 0xd0, 0xe1)

// drawFrame draws the current frame.
func (c *Client) drawFrame(snap *session.Snapshot) error {
	// On screen or inactivity transitions, do a full terminal clear
	// so UI elements from the previous screen don't persist.
	stateChanged := c.state.GameState != c.state.prevGameState
	inactiveChanged := c.state.isInactive != c.state.wasInactive
	if stateChanged || inactiveChanged {
		c.frame.Clear()
		c.state.prevGameState = c.state.GameState
		c.state.wasInactive = c.state.isInactive
	}

	c.canvas.Clear()
	c.canvas.SetLogicalSize(snap.Screen.Width, snap.Screen.Height)
	if c.state.GameState != GameStateStart {
		c.drawWorld(snap)
	}
	c.canvas.Render(c.frame)
	c.canvas.RenderBorder(c.frame)

	c.drawUI(snap)

	if c.state.bell {
		c.frame.Bell()
		c.state.bell = false
	}
	return c.frame.Flush()
}

// color parses and caches a catalog color.
func (c *Client) color(hex string) draw.Color {
	if col, ok := c.colors[hex]; ok {
		return col
	}
	col := draw.ParseHex(hex)
	c.colors[hex] = col
	return col
}

func (c *Client) missileColor(id catalog.MissileType) draw.Color {
	cfg, err := c.cat.Missile(id)
	if err != nil {
		return draw.White
	}
	return c.color(cfg.Color)
}

// drawWorld paints every entity of the snapshot and the particles.
func (c *Client) drawWorld(snap *session.Snapshot) {
	cv := c.canvas
	screen := snap.Screen

	for _, b := range snap.Barriers {
		col := c.color(b.Color)
		for _, seg := range b.Segments(screen) {
			cv.FillRect(seg.X, seg.Y, seg.Width, seg.Height, col)
		}
	}

	for _, e := range snap.Enemies {
		r := e.Bounds(screen)
		col := c.color(e.Color)
		if e.Color == "" {
			col = c.color(c.cat.EnemyColor(e.Type))
		}
		cv.FillRect(r.X, r.Y, r.Width, r.Height, col)
	}

	for _, col := range snap.Collectibles {
		cv.FillCircle(col.X*screen.Width, col.Y*screen.Height, object.CollectibleSize/2, c.color(col.Color))
	}

	for _, b := range snap.Bullets {
		cv.FillCircle(b.X, b.Y, b.Radius, c.missileColor(b.Type))
	}

	if !snap.GameOver {
		c.drawShip(snap)
	}

	for _, p := range c.state.particles {
		if !p.Visible() {
			continue
		}
		fade := 1.0
		if p.MaxLifetime > 0 {
			fade = p.Lifetime / p.MaxLifetime
		}
		cv.FillRect(p.X-2, p.Y-2, 4, 4, c.color(p.Color).Scale(0.4+0.6*fade))
	}
}

// drawShip draws the player and, while charging, a bar that grows toward
// the special shot.
func (c *Client) drawShip(snap *session.Snapshot) {
	p := snap.Player
	halfW, halfH := object.PlayerWidth/2, object.PlayerHeight/2

	points := c.canvas.BorrowPoints(4)
	points[0] = draw.Point{X: p.X, Y: p.Y - halfH}
	points[1] = draw.Point{X: p.X + halfW, Y: p.Y + halfH}
	points[2] = draw.Point{X: p.X, Y: p.Y + halfH/2}
	points[3] = draw.Point{X: p.X - halfW, Y: p.Y + halfH}
	c.canvas.DrawPolygon(points, true, shipColor)

	if snap.Charging {
		w := object.PlayerWidth * snap.ChargeProgress
		c.canvas.FillRect(p.X-w/2, p.Y+halfH+8, w, 6, c.missileColor(catalog.MissileSpecial))
	}
}

// drawUI draws the overlay for the current screen.
func (c *Client) drawUI(snap *session.Snapshot) {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if c.state.GameState == GameStateShutdown {
		c.drawShutdownScreen(centerX, centerY)
		return
	}

	if c.state.isInactive {
		c.drawInactivityScreen(centerX, centerY)
		return
	}

	switch c.state.GameState {
	case GameStateStart:
		c.drawStartScreen(centerX, centerY, snap)
	case GameStatePlaying:
		c.drawPlayingHUD(termWidth, termHeight, snap)
	case GameStatePaused:
		c.drawPlayingHUD(termWidth, termHeight, snap)
		c.drawPausedScreen(centerX, centerY)
	case GameStateGameOver:
		if c.state.showGameOverOverlay {
			c.drawGameOverScreen(centerX, centerY, snap)
		}
	}
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	c.frame.Centered(centerX, centerY-2, "INACTIVITY WARNING")
	c.frame.Centered(centerX, centerY, fmt.Sprintf(
		"Disconnecting in %d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	))
	c.frame.Centered(centerX, centerY+2, "Press any key to continue")
}

var titleArt = []string{
	` ___ _  ____   _____  _   ___ ___  `,
	`/ __| |/ /\ \ / / _ \/_\ |_ _|   \ `,
	`\__ \ ' <  \ V /|   / _ \ | || |) |`,
	`|___/_|\_\  |_| |_|_\_/ \_\___|___/ `,
}

// drawStartScreen draws the title screen.
func (c *Client) drawStartScreen(centerX, centerY int, snap *session.Snapshot) {
	row := c.frame.Block(centerX, centerY-9, titleArt)
	c.frame.Centered(centerX, row+1, "~ Dodge, shoot, survive ~")

	c.frame.Centered(centerX, row+3, "Controls")
	controlLines := []string{
		"A D / < >  . . . . Steer",
		"SPACE  . . . Charge shot",
		"F  . . . . Special shot",
		"X  . . . .  Cancel charge",
		"1-4  . . . Select missile",
		"P  . . . . . . . . Pause",
		"Q  . . . . . . . .  Quit",
	}
	row = c.frame.Block(centerX, row+4, controlLines) + 1
	if snap.Score > 0 && !snap.GameOver {
		c.frame.Centered(centerX, row, fmt.Sprintf("Saved run: score %d, health %d", snap.Score, snap.Health))
		row += 2
	}

	// Blinking start prompt
	if time.Now().UnixMilli()/600%2 == 0 {
		c.frame.Centered(centerX, row, ">>  Press ENTER to Start  <<")
	}
}

// drawPlayingHUD draws the in-game HUD.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen.
func (c *Client) drawPlayingHUD(termWidth, termHeight int, snap *session.Snapshot) {
	f := c.frame
	f.Field(2, 1, 13, fmt.Sprintf("Score: %d", snap.Score))

	health := min(max(snap.Health, 0), config.MaxHealth)
	hearts := strings.Repeat("♥", health) + strings.Repeat("·", config.MaxHealth-health)
	f.RightAligned(termWidth, 1, hearts)

	if c.state.message != "" {
		f.Centered(termWidth/2, 2, c.state.message)
	}

	weapon := string(snap.Weapon)
	if snap.ActiveWeapon != "" {
		left := max(time.Until(snap.WeaponEndTime).Seconds(), 0)
		weapon = fmt.Sprintf("%-8s %4.1fs", snap.ActiveWeapon, left)
	}
	f.Field(2, termHeight, 15, weapon)

	if snap.Charging {
		filled := int(snap.ChargeProgress * 10)
		bar := "[" + strings.Repeat("=", filled) + strings.Repeat(" ", 10-filled) + "]"
		f.RightAligned(termWidth, termHeight, bar)
	}
}

// drawPausedScreen draws the pause overlay.
func (c *Client) drawPausedScreen(centerX, centerY int) {
	c.frame.Centered(centerX, centerY-1, "PAUSED")
	c.frame.Centered(centerX, centerY+1, "Press P to resume")
}

var gameOverArt = []string{
	`   ___   _   __  __ ___  `,
	`  / __| /_\ |  \/  | __| `,
	` | (_ |/ _ \| |\/| | _|  `,
	`  \___/_/ \_\_|  |_|___| `,
	`   _____   _____ ___     `,
	`  / _ \ \ / / __| _ \    `,
	` | (_) \ V /| _||   /    `,
	`  \___/ \_/ |___|_|_\    `,
}

// drawGameOverScreen draws the game over overlay.
func (c *Client) drawGameOverScreen(centerX, centerY int, snap *session.Snapshot) {
	row := c.frame.Block(centerX, centerY-7, gameOverArt)
	c.frame.Centered(centerX, row+1, fmt.Sprintf("Score: %d", snap.Score))

	if time.Now().UnixMilli()/600%2 == 0 {
		c.frame.Centered(centerX, row+3, ">>  Press ENTER to Restart  <<")
	}
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	c.frame.Centered(centerX, centerY-3, "SERVER SHUTTING DOWN")
	c.frame.Centered(centerX, centerY-1, "Your run has been saved.")
	c.frame.Centered(centerX, centerY, "Please reconnect in a moment.")

	remaining := int(c.state.shutdownTimer) + 1
	c.frame.Centered(centerX, centerY+2, fmt.Sprintf("Disconnecting in %d seconds...", remaining))
	c.frame.Centered(centerX, centerY+4, "Press Q to disconnect now")
}
