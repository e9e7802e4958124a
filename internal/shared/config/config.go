package config

type Config struct {
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	HTTPServer HTTPServerConfig `yaml:"httpserver" mapstructure:"httpserver"`
	GRPCServer GRPCServerConfig `yaml:"grpcserver" mapstructure:"grpcserver"`
	Game       GameConfig       `yaml:"game" mapstructure:"game"`
	Storage    StorageConfig    `yaml:"storage" mapstructure:"storage"`
	MySQL      MySQLConfig      `yaml:"mysql" mapstructure:"mysql"`
	MongoDB    MongoDBConfig    `yaml:"mongodb" mapstructure:"mongodb"`
	SQLite     SQLiteConfig     `yaml:"sqlite" mapstructure:"sqlite"`
	Session    SessionConfig    `yaml:"session" mapstructure:"session"`
}

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level"` // debug/info/warn/error...
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
}

type HTTPServerConfig struct {
	Host       string `yaml:"host" mapstructure:"host"`
	Port       int    `yaml:"port" mapstructure:"port"`
	NeedSecret bool   `yaml:"need_secret" mapstructure:"need_secret"` // ws 握手后是否加密
}

type GRPCServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
}

type GameConfig struct {
	CatalogDir        string         `yaml:"catalog_dir" mapstructure:"catalog_dir"` // 为空使用内置目录
	LogLimit          int            `yaml:"log_limit" mapstructure:"log_limit"`
	TickMS            int            `yaml:"tick_ms" mapstructure:"tick_ms"`
	FlushMS           int            `yaml:"flush_ms" mapstructure:"flush_ms"`
	IdleS             int            `yaml:"idle_s" mapstructure:"idle_s"` // 存档 actor 空闲多久后卸载
	Unlimited         bool           `yaml:"unlimited" mapstructure:"unlimited"`
	StartingResources map[string]int `yaml:"starting_resources" mapstructure:"starting_resources"`
	StartingVillagers int            `yaml:"starting_villagers" mapstructure:"starting_villagers"`
	World             WorldConfig    `yaml:"world" mapstructure:"world"`
}

type WorldConfig struct {
	Radius       int   `yaml:"radius" mapstructure:"radius"`
	Seed         int64 `yaml:"seed" mapstructure:"seed"` // 0 表示每局随机
	NodesPerKind int   `yaml:"nodes_per_kind" mapstructure:"nodes_per_kind"`
	BaseAmount   int   `yaml:"base_amount" mapstructure:"base_amount"`
	ClearRadius  int   `yaml:"clear_radius" mapstructure:"clear_radius"`
}

type StorageConfig struct {
	Driver   string `yaml:"driver" mapstructure:"driver"` // memory/sqlite/mysql/mongodb
	Compress bool   `yaml:"compress" mapstructure:"compress"`
}

type MySQLConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	DBName   string `yaml:"dbname" mapstructure:"dbname"`
	Charset  string `yaml:"charset" mapstructure:"charset"`
	MaxIdle  int    `yaml:"max_idle" mapstructure:"max_idle"`
	MaxConn  int    `yaml:"max_conn" mapstructure:"max_conn"`
}

type MongoDBConfig struct {
	URI             string `yaml:"uri" mapstructure:"uri"`
	Database        string `yaml:"database" mapstructure:"database"`
	Collection      string `yaml:"collection" mapstructure:"collection"`
	ConnectTimeoutS int    `yaml:"connect_timeout_s" mapstructure:"connect_timeout_s"`
}

type SQLiteConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

type SessionConfig struct {
	JWTSecret string `yaml:"jwt_secret" mapstructure:"jwt_secret"`
	TTLHours  int    `yaml:"ttl_hours" mapstructure:"ttl_hours"`
}
