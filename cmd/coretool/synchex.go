package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/udisondev/corebank/internal/game/core"
	"github.com/udisondev/corebank/internal/gameserver/serverpackets"
)

func newSyncHexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync-hex HEX",
		Short: "Decode a captured ExCoreSync payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := strings.NewReplacer(" ", "", ":", "", "\n", "").Replace(args[0])
			data, err := hex.DecodeString(raw)
			if err != nil {
				return fmt.Errorf("decoding hex: %w", err)
			}
			p, err := serverpackets.ParseExCoreSync(data)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), describeSync(p))
			return nil
		},
	}
}

func describeSync(p serverpackets.ExCoreSync) string {
	var b strings.Builder
	fmt.Fprintf(&b, "owner: %d\n", p.OwnerID)
	fmt.Fprintf(&b, "boss defeated: %t\n", p.Flags.BossDefeated)
	fmt.Fprintf(&b, "slots unlocked: %t\n", p.Flags.SlotsUnlocked)
	for i, itemType := range p.Slots {
		name := "-"
		if itemType != 0 {
			if c, ok := core.CoreByItemType(itemType); ok {
				name = c.String()
			} else {
				name = fmt.Sprintf("unknown(%d)", itemType)
			}
		}
		fmt.Fprintf(&b, "slot%d: %s\n", i, name)
	}
	for _, r := range p.Regions {
		fmt.Fprintf(&b, "protected region: (%d,%d) r=%d\n", r.X, r.Y, r.Radius)
	}
	return b.String()
}
