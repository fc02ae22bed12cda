package btcodec

// ReportRecord is the persisted form of a quality report: the remote device identity plus
// the report re-encoded in its controller wire layout.
type ReportRecord struct {
	RemoteAddress  string `json:"remoteAddress"`
	LmpVersion     int    `json:"lmpVersion"`
	LmpSubVersion  int    `json:"lmpSubVersion"`
	ManufacturerID int    `json:"manufacturerId"`
	RemoteName     string `json:"remoteName"`
	ClassOfDevice  uint32 `json:"classOfDevice"`
	Raw            []byte `json:"raw"`
}

type ReportCache interface {
	Store(Addr, ReportRecord, bool) error
	Load(Addr) (ReportRecord, error)
	List() ([]ReportRecord, error)
	Clear() error
}
