// Package logtail reads the tail of the console's own log file for the logs
// view.
//
// Read walks backwards from the end of the file in fixed blocks and stops once
// it holds the last N lines, so a long-running log is never read whole. Parse decodes a zap JSON line into an Entry (level,
// time, logger name, message and remaining fields); Format renders an Entry as
// a single terminal line with fields in key order.
//
//	lines, err := logtail.Read(cfg.LogPath(), 400)
//	if err != nil {
//		return err
//	}
//	for _, e := range logtail.ParseLines(lines, zapcore.InfoLevel) {
//		fmt.Println(logtail.Format(e))
//	}
package logtail
