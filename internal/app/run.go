package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/nsoverlay/internal/ctxlog"
)

// Run binds the repository and prints the configured namespace: its
// description and attribute names, or the requested attribute values.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if err := a.Load(ctx); err != nil {
		return err
	}

	ns := a.config.Namespace
	desc, err := a.Describe(ns)
	if err != nil {
		return err
	}

	if len(a.config.Attributes) == 0 {
		names, err := a.Dir(ns)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.outW, desc)
		for _, name := range names {
			fmt.Fprintf(a.outW, "  %s\n", name)
		}
		a.logger.Debug("App.Run method finished.")
		return nil
	}

	for _, attr := range a.config.Attributes {
		v, err := a.Get(ns, attr)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.outW, "%s.%s = %v\n", ns, attr, v)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}
