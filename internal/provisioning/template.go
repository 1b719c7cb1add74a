package provisioning

// FailureStage tells the template owner which phase a worker was lost in.
type FailureStage string

const (
	StageProvisioning     FailureStage = "PROVISIONING"
	StagePostProvisioning FailureStage = "POST_PROVISIONING"
)

// FailureHook receives fire-and-forget failure notifications for a template.
// Higher-level retry and backoff policy lives behind it.
type FailureHook func(message string, stage FailureStage)

// WorkerTemplate describes how to provision one class of worker. It is
// owned by configuration and read-only here; launch-time state lives on the
// VMRecord instead.
type WorkerTemplate struct {
	Name          string `yaml:"name"`
	ResourceGroup string `yaml:"resource_group"`

	// Location is the human-readable display name, resolved to a provider
	// code through the catalog at render time.
	Location string `yaml:"location"`

	// Image is either a custom VHD URI plus OSType, or a catalog tuple.
	// The two modes are mutually exclusive.
	ImageURI       string `yaml:"image_uri"`
	OSType         string `yaml:"os_type"`
	ImagePublisher string `yaml:"image_publisher"`
	ImageOffer     string `yaml:"image_offer"`
	ImageSKU       string `yaml:"image_sku"`
	ImageVersion   string `yaml:"image_version"`

	VMSize         string `yaml:"vm_size"`
	StorageAccount string `yaml:"storage_account"`
	VirtualNetwork string `yaml:"virtual_network"`
	Subnet         string `yaml:"subnet"`

	AdminUser     string `yaml:"admin_user"`
	AdminPassword string `yaml:"admin_password"`

	// InitScript runs once on each new worker before the agent starts.
	InitScript string `yaml:"init_script"`

	// RuntimeOptions are passed verbatim to the agent runtime.
	RuntimeOptions string `yaml:"runtime_options"`

	Executors        int `yaml:"executors"`
	RetentionMinutes int `yaml:"retention_minutes"`

	// ExecuteInitAsRoot elevates the init script via sudo.
	ExecuteInitAsRoot bool `yaml:"execute_init_as_root"`

	// DiscardOnInitFailure deletes a worker whose init script exits
	// non-zero instead of attaching it anyway.
	DiscardOnInitFailure bool `yaml:"discard_on_init_failure"`

	// OnFailure, when set, is notified once per lost worker.
	OnFailure FailureHook `yaml:"-"`
}

// UsesCustomImage reports whether the template references a VHD by URI
// instead of a catalog tuple.
func (t *WorkerTemplate) UsesCustomImage() bool {
	return t.ImageURI != ""
}

// ReportFailure invokes the failure hook if one is configured.
func (t *WorkerTemplate) ReportFailure(message string, stage FailureStage) {
	if t.OnFailure != nil {
		t.OnFailure(message, stage)
	}
}
