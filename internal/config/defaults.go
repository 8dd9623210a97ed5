package config

const (
	defaultConfigPath        = "~/.config/longview/config.toml"
	projectConfigName        = "longview.toml"
	defaultOutputDir         = "html"
	defaultLogDir            = "~/.local/share/longview/logs"
	defaultLogRetentionDays  = 30
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultTitle             = "Long View"
	defaultLeftMargin        = 5
	defaultIntervalPixels    = 100
	defaultResolutionMonths  = 12
	defaultMinBarWidth       = 8
	defaultTopFrameHeight    = 95
	defaultNowBarColor       = "#9999cc"
	defaultStippleColor      = "#999999"
	defaultIdealPixelsPerNav = 500
	defaultMinNavCells       = 2
	defaultMaxNavCells       = 12
	defaultNavCellWidth      = 25
	defaultNavCellHeight     = 20
	defaultBarHeight         = 13
	defaultDiamondWidth      = 7
	defaultDiamondLeftMargin = 2
	defaultNotifySubject     = "Long View Notification"
	defaultSMTPServer        = "localhost:25"
	defaultRequestTimeout    = 10

	// LabelYears and LabelMonths are the accepted timeline.label_resolution values.
	LabelYears  = "years"
	LabelMonths = "months"

	// LedgerCSV and LedgerSQLite are the accepted notify.ledger values.
	LedgerCSV    = "csv"
	LedgerSQLite = "sqlite"

	// SenderSMTP, SenderNtfy and SenderNone are the accepted notify.sender values.
	SenderSMTP = "smtp"
	SenderNtfy = "ntfy"
	SenderNone = "none"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Timeline: Timeline{
			Title:                  defaultTitle,
			LeftMargin:             defaultLeftMargin,
			IntervalPixels:         defaultIntervalPixels,
			ResolutionMonths:       defaultResolutionMonths,
			MinBarWidth:            defaultMinBarWidth,
			FiveDigitYears:         true,
			LabelResolution:        LabelYears,
			TopFrameHeight:         defaultTopFrameHeight,
			NowBarColor:            defaultNowBarColor,
			BackgroundStippleColor: defaultStippleColor,
			DataFile:               "data.csv",
		},
		Nav: Nav{
			IdealPixelsPerCell: defaultIdealPixelsPerNav,
			MinCells:           defaultMinNavCells,
			MaxCells:           defaultMaxNavCells,
			CellWidth:          defaultNavCellWidth,
			CellHeight:         defaultNavCellHeight,
		},
		EventBar: EventBar{
			Height:            defaultBarHeight,
			Color1:            "#cc9966",
			Color2:            "#996633",
			FutureColor:       "#dddddd",
			NoColor:           "#cc3333",
			YesColor:          "#3333cc",
			NoDataColor:       "#cccccc",
			Saturation:        0.7,
			DiamondWidth:      defaultDiamondWidth,
			DiamondLeftMargin: defaultDiamondLeftMargin,
			NoVoteRatio:       0.5,
			MissingPostsRatio: 0.5,
		},
		Notify: Notify{
			Ledger:         LedgerCSV,
			Sender:         SenderSMTP,
			SMTPServer:     defaultSMTPServer,
			Subject:        defaultNotifySubject,
			RequestTimeout: defaultRequestTimeout,
		},
		Paths: Paths{
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
